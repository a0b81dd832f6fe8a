package interfaces

// LayoutRenderer renders a named layout template against page data. The
// themes package provides the html/template backed implementation; hosts can
// substitute their own engine as long as unknown layout names surface an
// error instead of falling back silently.
type LayoutRenderer interface {
	// Render executes the layout identified by name with the given data and
	// returns the resulting HTML document.
	Render(name string, data any) ([]byte, error)
	// Has reports whether a layout with the given name is registered.
	Has(name string) bool
}
