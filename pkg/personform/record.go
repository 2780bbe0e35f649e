package personform

import (
	"encoding/json"
	"time"
)

// PersonRecord is the data captured by a successful submission.
type PersonRecord struct {
	Salutation    string
	FirstName     string
	LastName      string
	BirthDate     time.Time
	StreetAddress string
	PostalCode    string
	City          string
	CountryCode   string
}

// Map presents the record as the flat key/value map consumers receive. The
// birth date is formatted with DateLayout.
func (r PersonRecord) Map() map[string]string {
	birthDate := ""
	if !r.BirthDate.IsZero() {
		birthDate = r.BirthDate.Format(DateLayout)
	}
	return map[string]string{
		string(FieldSalutation):    r.Salutation,
		string(FieldFirstName):     r.FirstName,
		string(FieldLastName):      r.LastName,
		string(FieldBirthDate):     birthDate,
		string(FieldStreetAddress): r.StreetAddress,
		string(FieldPostalCode):    r.PostalCode,
		string(FieldCity):          r.City,
		string(FieldCountry):       r.CountryCode,
	}
}

func (r PersonRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func recordFromValues(values map[Field]string) (PersonRecord, error) {
	birthDate, err := ParseDate(values[FieldBirthDate])
	if err != nil {
		return PersonRecord{}, err
	}
	return PersonRecord{
		Salutation:    values[FieldSalutation],
		FirstName:     values[FieldFirstName],
		LastName:      values[FieldLastName],
		BirthDate:     birthDate,
		StreetAddress: values[FieldStreetAddress],
		PostalCode:    values[FieldPostalCode],
		City:          values[FieldCity],
		CountryCode:   values[FieldCountry],
	}, nil
}
