package vanilla

import "github.com/goliatone/go-personform/pkg/personform"

type resultRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// resultRows lays out the submitted record in field order, with the country
// code replaced by its display name.
func resultRows(snap personform.Snapshot) []resultRow {
	if len(snap.Record) == 0 {
		return nil
	}
	rows := make([]resultRow, 0, len(snap.Record))
	for _, field := range personform.Fields() {
		value := snap.Record[string(field)]
		if field == personform.FieldCountry && snap.CountryName != "" {
			value = snap.CountryName
		}
		rows = append(rows, resultRow{Label: field.Label(), Value: value})
	}
	return rows
}
