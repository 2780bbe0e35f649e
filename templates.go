package personform

import (
	"io/fs"

	"github.com/goliatone/go-personform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the browser helper script served next to the page.
//
// Typical mount:
//
//	mux.Handle("/assets/*",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(personform.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
