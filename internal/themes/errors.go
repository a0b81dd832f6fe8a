package themes

import "errors"

var (
	// ErrLayoutUnknown signals a document requested a layout with no matching
	// template in the active theme.
	ErrLayoutUnknown = errors.New("themes: layout is unknown")
	// ErrSlotMissing signals a template slot referenced a value the page could
	// not supply.
	ErrSlotMissing = errors.New("themes: template slot could not be resolved")
	// ErrNoTemplates signals the theme directory holds no layout templates.
	ErrNoTemplates = errors.New("themes: no layout templates found")
)
