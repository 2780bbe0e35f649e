package personform

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MessageRequired   = "Dieses Feld ist erforderlich"
	MessagePostalCode = "PLZ muss genau 5 Ziffern enthalten"
	MessageFutureDate = "Geburtsdatum muss in der Vergangenheit liegen"
)

var defaultHelpTexts = map[Field]string{
	FieldSalutation:    "Wählen Sie Ihre Anrede aus",
	FieldFirstName:     "Geben Sie Ihren Vornamen ein",
	FieldLastName:      "Geben Sie Ihren Nachnamen ein",
	FieldBirthDate:     "Wählen Sie Ihr Geburtsdatum aus dem Kalender",
	FieldStreetAddress: "Vollständige Adresse mit Straße und Hausnummer",
	FieldPostalCode:    "Postleitzahl (genau 5 Ziffern)",
	FieldCity:          "Name Ihrer Stadt oder Gemeinde",
	FieldCountry:       "Wählen Sie Ihr Land aus der Liste",
}

// DefaultHelpTexts returns a copy of the built-in tooltip texts.
func DefaultHelpTexts() map[Field]string {
	out := make(map[Field]string, len(defaultHelpTexts))
	for field, text := range defaultHelpTexts {
		out[field] = text
	}
	return out
}

// Message maps a failure tag of field onto its user-facing text. The pattern
// message only applies to the postal code.
func Message(field Field, tag Tag) string {
	switch {
	case tag == TagRequired:
		return MessageRequired
	case tag == TagPattern && field == FieldPostalCode:
		return MessagePostalCode
	case tag == TagFutureDate:
		return MessageFutureDate
	default:
		return ""
	}
}

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// SanitizeHelpText strips markup from configured help texts, keeping only
// inline emphasis and line breaks.
func SanitizeHelpText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "br")
		helpPolicy = policy
	})
	return helpPolicy
}
