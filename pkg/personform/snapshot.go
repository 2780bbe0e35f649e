package personform

import "github.com/goliatone/go-personform/components/countries"

// FieldView is the per-field state a host needs to draw one control.
type FieldView struct {
	Name           Field  `json:"name"`
	Label          string `json:"label"`
	Value          string `json:"value"`
	Touched        bool   `json:"touched"`
	Invalid        bool   `json:"invalid"`
	Valid          bool   `json:"valid"`
	Error          string `json:"error,omitempty"`
	Tooltip        string `json:"tooltip"`
	TooltipVisible bool   `json:"tooltipVisible"`
}

// Snapshot is a read-only copy of the form for rendering and APIs.
type Snapshot struct {
	State       string              `json:"state"`
	Loading     bool                `json:"loading"`
	LoadError   bool                `json:"loadError"`
	Submitted   bool                `json:"submitted"`
	Success     bool                `json:"success"`
	FormValid   bool                `json:"formValid"`
	Today       string              `json:"today"`
	Fields      []FieldView         `json:"fields"`
	Record      map[string]string   `json:"record,omitempty"`
	CountryName string              `json:"countryName,omitempty"`
	Countries   []countries.Country `json:"countries"`
	Salutations []string            `json:"salutations"`
}

// Snapshot copies the observable state of the form.
func (f *Form) Snapshot() Snapshot {
	snap := Snapshot{
		State:       f.state.String(),
		Loading:     f.Loading(),
		LoadError:   f.LoadError(),
		Submitted:   f.submitted,
		Success:     f.success,
		FormValid:   f.IsFormValid(),
		Today:       f.Today().Format(DateLayout),
		Fields:      make([]FieldView, 0, len(fieldOrder)),
		Countries:   f.Countries(),
		Salutations: Salutations(),
	}
	if snap.Countries == nil {
		snap.Countries = []countries.Country{}
	}

	for _, field := range fieldOrder {
		invalid := f.IsFieldInvalid(field)
		view := FieldView{
			Name:           field,
			Label:          field.Label(),
			Value:          f.values[field],
			Touched:        f.touched[field],
			Invalid:        invalid,
			Valid:          f.IsFieldValid(field),
			Tooltip:        f.TooltipText(field),
			TooltipVisible: f.IsTooltipVisible(field),
		}
		if invalid {
			view.Error = f.ErrorMessage(field)
		}
		snap.Fields = append(snap.Fields, view)
	}

	if record, ok := f.Record(); ok {
		snap.Record = record.Map()
		snap.CountryName = f.CountryName(record.CountryCode)
	}
	return snap
}

// Field returns the view of one field from the snapshot.
func (s Snapshot) Field(field Field) (FieldView, bool) {
	for _, view := range s.Fields {
		if view.Name == field {
			return view, true
		}
	}
	return FieldView{}, false
}
