package personform

import (
	"regexp"
	"time"
)

// Tag names the reason a value failed its rule. The empty tag means the value
// passed.
type Tag string

const (
	TagNone        Tag = ""
	TagRequired    Tag = "required"
	TagPattern     Tag = "pattern"
	TagFutureDate  Tag = "futureDate"
	TagInvalidDate Tag = "invalidDate"
)

// DateLayout is the wire format of the birth date (ISO calendar date).
const DateLayout = "2006-01-02"

// Rule checks a raw field value against today's date and reports the first
// failure.
type Rule func(value string, today time.Time) Tag

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

var rules = map[Field]Rule{
	FieldSalutation:    Required,
	FieldFirstName:     Required,
	FieldLastName:      Required,
	FieldBirthDate:     All(Required, PastDate),
	FieldStreetAddress: Required,
	FieldPostalCode:    All(Required, Pattern(postalCodePattern)),
	FieldCity:          Required,
	FieldCountry:       Required,
}

// RuleFor returns the rule attached to field, or nil for unknown fields.
func RuleFor(field Field) Rule {
	return rules[field]
}

// Check evaluates the rule of field.
func Check(field Field, value string, today time.Time) Tag {
	rule := rules[field]
	if rule == nil {
		return TagNone
	}
	return rule(value, today)
}

// Required fails empty values.
func Required(value string, _ time.Time) Tag {
	if value == "" {
		return TagRequired
	}
	return TagNone
}

// Pattern fails non-empty values that do not match re.
func Pattern(re *regexp.Regexp) Rule {
	return func(value string, _ time.Time) Tag {
		if value == "" || re.MatchString(value) {
			return TagNone
		}
		return TagPattern
	}
}

// PastDate fails non-empty dates on or after today. Time of day is ignored on
// both sides.
func PastDate(value string, today time.Time) Tag {
	if value == "" {
		return TagNone
	}
	date, err := ParseDate(value)
	if err != nil {
		return TagInvalidDate
	}
	if !date.Before(DateOf(today)) {
		return TagFutureDate
	}
	return TagNone
}

// All runs rules in order and returns the first failure.
func All(chain ...Rule) Rule {
	return func(value string, today time.Time) Tag {
		for _, rule := range chain {
			if tag := rule(value, today); tag != TagNone {
				return tag
			}
		}
		return TagNone
	}
}

// ParseDate parses a DateLayout value into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
