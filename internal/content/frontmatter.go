package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the Markdown
// body without delimiters, and any error encountered. Required fields are not
// enforced here; callers run ValidateFrontMatter once the slug is resolved.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrFrontMatterMalformed, err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// ValidateFrontMatter enforces the required fields every publishable document
// carries. Each violation maps to a dedicated sentinel so callers can branch
// on the failure without parsing messages.
func ValidateFrontMatter(fm interfaces.FrontMatter) error {
	if err := validation.Validate(fm.Layout, validation.Required); err != nil {
		return ErrLayoutRequired
	}
	if err := validation.Validate(fm.Title, validation.Required); err != nil {
		return ErrTitleRequired
	}
	if fm.Date.IsZero() {
		return ErrDateRequired
	}
	if fm.Slug != "" && !IsValidSlug(fm.Slug) {
		return fmt.Errorf("%w: %s", ErrSlugInvalid, fm.Slug)
	}
	return nil
}

type frontMatterEnvelope struct {
	Layout     string         `yaml:"layout"`
	Title      string         `yaml:"title"`
	Slug       string         `yaml:"slug"`
	Summary    string         `yaml:"summary"`
	Date       time.Time      `yaml:"date"`
	Categories categoryList   `yaml:"categories"`
	Draft      bool           `yaml:"draft"`
	Custom     map[string]any `yaml:",inline"`
}

// categoryList accepts either a YAML sequence or a single space-delimited
// string, matching the loose authoring conventions of existing content.
type categoryList []string

func (c *categoryList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*c = categoryList(strings.Fields(single))
		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	out := make([]string, 0, len(many))
	for _, entry := range many {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*c = categoryList(out)
	return nil
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Layout != "" {
		raw["layout"] = env.Layout
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if len(env.Categories) > 0 {
		raw["categories"] = append([]string(nil), env.Categories...)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Layout:     env.Layout,
		Title:      env.Title,
		Slug:       env.Slug,
		Summary:    env.Summary,
		Date:       env.Date,
		Categories: append([]string(nil), env.Categories...),
		Draft:      env.Draft,
		Custom:     cloneMap(env.Custom),
		Raw:        raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
