// Package webform serves the person form over HTTP. Every browser session
// owns one form; the page is rendered server side and a small JSON API exposes
// the same operations (field updates, touch, tooltips, submit, reset) for the
// browser helper script.
package webform
