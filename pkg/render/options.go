package render

// RenderOptions carry per-request data that is not part of the form state.
type RenderOptions struct {
	// Action is the URL the form posts to.
	Action string
	// ResetAction is the URL of the reset button.
	ResetAction string
	// Hidden is emitted as hidden inputs, sorted by name.
	Hidden map[string]string
	// Notices are form-level messages shown above the fields.
	Notices []string
}
