// Package personform holds the state and rules of the personal details form:
// field values, touched flags, the submission lifecycle, the fixed German
// error messages, and per-field help tooltips.
//
// A Form is not safe for concurrent use. Hosts own one Form per user and
// serialize the events they feed into it.
package personform
