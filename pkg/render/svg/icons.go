package svg

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// iconViewBox is the design grid all builtin icon paths are drawn on.
const iconViewBox = 24.0

// iconPaths is the builtin icon set, each drawn on a 24×24 grid. The edit
// provider is told these names; anything else degrades to a comment node.
var iconPaths = map[string]string{
	"star":    "M12 2 L14.9 8.6 L22 9.3 L16.7 14.1 L18.2 21.2 L12 17.5 L5.8 21.2 L7.3 14.1 L2 9.3 L9.1 8.6 Z",
	"heart":   "M12 21 C5 14.5 2 11 2 7.5 C2 4.5 4.5 2.5 7 2.5 C9 2.5 11 3.8 12 5.5 C13 3.8 15 2.5 17 2.5 C19.5 2.5 22 4.5 22 7.5 C22 11 19 14.5 12 21 Z",
	"circle":  "M12 2 A10 10 0 1 0 12 22 A10 10 0 1 0 12 2 Z",
	"arrow":   "M2 12 L16 12 M10 5 L17 12 L10 19",
	"check":   "M3 13 L9 19 L21 5",
	"cross":   "M5 5 L19 19 M19 5 L5 19",
	"cloud":   "M6 18 A4 4 0 0 1 6 10 A6 6 0 0 1 17.5 8.5 A4.5 4.5 0 0 1 17 18 Z",
	"sun":     "M12 7 A5 5 0 1 0 12 17 A5 5 0 1 0 12 7 Z M12 1 L12 4 M12 20 L12 23 M1 12 L4 12 M20 12 L23 12 M4.2 4.2 L6.3 6.3 M17.7 17.7 L19.8 19.8 M19.8 4.2 L17.7 6.3 M6.3 17.7 L4.2 19.8",
	"moon":    "M20 14.5 A9 9 0 1 1 9.5 4 A7 7 0 0 0 20 14.5 Z",
	"bolt":    "M13 2 L4 14 L11 14 L9 22 L20 9 L13 9 Z",
	"droplet": "M12 2 C12 2 5 10 5 15 A7 7 0 0 0 19 15 C19 10 12 2 12 2 Z",
}

// IconNames lists the builtin icon names, for prompt construction.
func IconNames() []string {
	names := make([]string, 0, len(iconPaths))
	for name := range iconPaths {
		names = append(names, name)
	}
	// Sorted for deterministic prompts.
	slices.Sort(names)
	return names
}

// writeIcon emits a builtin icon scaled from the 24-grid to the requested
// size. Unknown names render an explanatory comment, never an error.
func writeIcon(buf *bytes.Buffer, id string, el scene.Element, d *defs) {
	path, ok := iconPaths[*el.Name]
	if !ok {
		fmt.Fprintf(buf, "<!-- unknown icon %q -->\n", escape(*el.Name))
		return
	}
	scale := *el.Size / iconViewBox
	fmt.Fprintf(buf, `<g transform="translate(%s %s) scale(%s)"><path d="%s"%s/></g>`+"\n",
		ftoa(*el.X), ftoa(*el.Y), ftoa(scale), path, commonAttrs(id, el, d))
}
