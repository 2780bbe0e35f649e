package render

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-personform/pkg/personform"
)

// JSONRendererName is the registry name of JSONRenderer.
const JSONRendererName = "json"

// JSONRenderer emits the snapshot plus render options as a JSON document.
type JSONRenderer struct{}

type jsonDocument struct {
	personform.Snapshot
	Hidden  []HiddenField `json:"hidden,omitempty"`
	Notices []string      `json:"notices,omitempty"`
}

func (JSONRenderer) Name() string        { return JSONRendererName }
func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (JSONRenderer) Render(ctx context.Context, snap personform.Snapshot, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(jsonDocument{
		Snapshot: snap,
		Hidden:   SortedHiddenFields(options.Hidden),
		Notices:  options.Notices,
	})
}
