package generator

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func testDocument(path, slug string, date time.Time, categories ...string) *interfaces.Document {
	return &interfaces.Document{
		ID:       identity.PageUUID(path),
		FilePath: path,
		FrontMatter: interfaces.FrontMatter{
			Layout:     "post",
			Title:      "Title",
			Slug:       slug,
			Date:       date,
			Categories: categories,
		},
		Body: []byte("body"),
	}
}

func TestBuildOutputPathDated(t *testing.T) {
	doc := testDocument("posts/how-recursing-works.md", "how-recursing-works",
		time.Date(2024, 4, 8, 8, 0, 0, 0, time.UTC))

	got := buildOutputPath(doc)
	want := "2024/04/08/how-recursing-works/index.html"
	if got != want {
		t.Fatalf("buildOutputPath = %q, want %q", got, want)
	}
}

func TestBuildOutputPathWithCategory(t *testing.T) {
	doc := testDocument("posts/welcome.md", "welcome",
		time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), "Release Notes", "meta")

	got := buildOutputPath(doc)
	want := "release-notes/2024/04/08/welcome/index.html"
	if got != want {
		t.Fatalf("buildOutputPath = %q, want %q", got, want)
	}
}

func TestBuildOutputPathSkipsUnslugifiableCategory(t *testing.T) {
	date := time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)
	doc := testDocument("posts/welcome.md", "welcome", date, "!!!", "Release Notes")

	got := buildOutputPath(doc)
	want := "release-notes/2024/04/08/welcome/index.html"
	if got != want {
		t.Fatalf("buildOutputPath = %q, want %q", got, want)
	}

	doc = testDocument("posts/other.md", "other", date, "!!!")
	got = buildOutputPath(doc)
	want = "2024/04/08/other/index.html"
	if got != want {
		t.Fatalf("buildOutputPath = %q, want %q", got, want)
	}
}

func TestRouteForOutput(t *testing.T) {
	cases := map[string]string{
		"2024/04/08/how-recursing-works/index.html": "/2024/04/08/how-recursing-works/",
		"index.html": "/",
	}
	for output, want := range cases {
		if got := routeForOutput(output); got != want {
			t.Fatalf("routeForOutput(%q) = %q, want %q", output, got, want)
		}
	}
}

func TestDetectCollisions(t *testing.T) {
	date := time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC)
	docs := []*interfaces.Document{
		testDocument("posts/a.md", "same-slug", date),
		testDocument("drafts/b.md", "same-slug", date),
	}

	err := detectCollisions(docs)
	if !errors.Is(err, ErrPathCollision) {
		t.Fatalf("expected ErrPathCollision, got %v", err)
	}
	var collision *PathCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected PathCollisionError, got %T", err)
	}
	if len(collision.Sources) != 2 {
		t.Fatalf("expected both sources reported, got %v", collision.Sources)
	}

	docs[1].FrontMatter.Slug = "other-slug"
	if err := detectCollisions(docs); err != nil {
		t.Fatalf("expected distinct slugs to pass, got %v", err)
	}
}

func TestAbsoluteURL(t *testing.T) {
	if got := absoluteURL("https://example.com/", "/2024/04/08/post/"); got != "https://example.com/2024/04/08/post/" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := absoluteURL("", "/about/"); got != "http://localhost/about/" {
		t.Fatalf("unexpected fallback url %q", got)
	}
}
