package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoRecord is returned when a snapshot without a submitted record is
	// rendered.
	ErrNoRecord = errors.New("tui: form has no submitted record")
)
