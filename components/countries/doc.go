// Package countries loads the static country list used by the person form,
// sorts it by display name with locale-aware collation, and exposes a small
// net/http handler that returns JSON options for select inputs.
//
// The list is line oriented, one `CODE;Name` pair per line. Lines that do not
// yield both a code and a name are dropped without a diagnostic. The default
// list is embedded under data/countries.csv; callers can point the lookup at a
// file, an fs.FS entry, or an HTTP(S) URL instead.
package countries
