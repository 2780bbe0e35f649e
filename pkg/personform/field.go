package personform

import "strings"

// Field identifies a form control. The values double as the keys of the
// presented record.
type Field string

const (
	FieldSalutation    Field = "anrede"
	FieldFirstName     Field = "vorname"
	FieldLastName      Field = "nachname"
	FieldBirthDate     Field = "geburtsdatum"
	FieldStreetAddress Field = "adresse"
	FieldPostalCode    Field = "plz"
	FieldCity          Field = "ort"
	FieldCountry       Field = "land"
)

var fieldOrder = []Field{
	FieldSalutation,
	FieldFirstName,
	FieldLastName,
	FieldBirthDate,
	FieldStreetAddress,
	FieldPostalCode,
	FieldCity,
	FieldCountry,
}

var fieldLabels = map[Field]string{
	FieldSalutation:    "Anrede",
	FieldFirstName:     "Vorname",
	FieldLastName:      "Nachname",
	FieldBirthDate:     "Geburtsdatum",
	FieldStreetAddress: "Adresse",
	FieldPostalCode:    "PLZ",
	FieldCity:          "Ort",
	FieldCountry:       "Land",
}

// Fields returns every field in display order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// ParseField resolves a field name, ignoring surrounding whitespace.
func ParseField(name string) (Field, bool) {
	field := Field(strings.TrimSpace(name))
	if _, ok := fieldLabels[field]; !ok {
		return "", false
	}
	return field, true
}

// Label is the German display label of the field.
func (f Field) Label() string {
	return fieldLabels[f]
}

func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

func (f Field) String() string { return string(f) }

// Salutation values offered by the form.
const (
	SalutationHerr   = "Herr"
	SalutationFrau   = "Frau"
	SalutationDivers = "Divers"
)

// Salutations returns the closed set of salutation options.
func Salutations() []string {
	return []string{SalutationHerr, SalutationFrau, SalutationDivers}
}
