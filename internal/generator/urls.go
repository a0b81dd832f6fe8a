package generator

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	defaultRouteGroup = "site"
	defaultRouteName  = "page"
)

// RouteResolver builds absolute page URLs from a go-urlkit route config.
// When configured it overrides the plain base URL concatenation used for
// feed and sitemap links, letting hosts reshape permalinks without touching
// the on-disk layout.
type RouteResolver struct {
	manager *urlkit.RouteManager
	group   string
	route   string
}

// NewRouteResolver wires a resolver from the optional route configuration.
// A nil config yields a nil resolver, which callers treat as "use base URL".
func NewRouteResolver(cfg *urlkit.Config) *RouteResolver {
	if cfg == nil || len(cfg.Groups) == 0 {
		return nil
	}
	return &RouteResolver{
		manager: urlkit.NewRouteManager(cfg),
		group:   defaultRouteGroup,
		route:   defaultRouteName,
	}
}

// PageURL resolves the absolute URL for a rendered page. The route template
// can reference :slug, :category, :year, :month, and :day.
func (r *RouteResolver) PageURL(page RenderedPage) (string, bool) {
	if r == nil || r.manager == nil {
		return "", false
	}

	group, err := r.lookupGroup(r.group)
	if err != nil || group == nil {
		return "", false
	}

	builder, err := r.safeBuilder(group, r.route)
	if err != nil || builder == nil {
		return "", false
	}

	for key, value := range pageRouteParams(page) {
		builder.WithParam(key, value)
	}

	url, err := builder.Build()
	if err != nil || strings.TrimSpace(url) == "" {
		return "", false
	}
	return url, true
}

func pageRouteParams(page RenderedPage) map[string]any {
	params := map[string]any{
		"slug": page.Slug,
	}
	if category := primaryCategory(splitRouteCategory(page)); category != "" {
		params["category"] = category
	}
	if !page.PublishedAt.IsZero() {
		date := page.PublishedAt.UTC()
		params["year"] = fmt.Sprintf("%04d", date.Year())
		params["month"] = fmt.Sprintf("%02d", int(date.Month()))
		params["day"] = fmt.Sprintf("%02d", date.Day())
	}
	return params
}

func splitRouteCategory(page RenderedPage) []string {
	// The category is the leading route segment when present; dated segments
	// are always numeric so a non-numeric head is the category.
	segments := strings.Split(strings.Trim(page.Route, "/"), "/")
	if len(segments) == 0 {
		return nil
	}
	head := segments[0]
	if head == "" || head == page.Slug || isNumericSegment(head) {
		return nil
	}
	return []string{head}
}

func isNumericSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r *RouteResolver) lookupGroup(name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: route group %q not found", name)
		}
	}()
	group = r.manager.Group(name)
	return group, err
}

func (r *RouteResolver) safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
