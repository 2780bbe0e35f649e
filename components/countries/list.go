package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

//go:embed data/countries.csv
var dataFS embed.FS

const (
	defaultListPath = "data/countries.csv"

	// ResourcePath is the logical path the list is served under.
	ResourcePath = "assets/countries.csv"

	fieldSeparator = ";"
	maxLineBytes   = 1 << 20
)

// DefaultLanguage is the collation language used when none is configured.
var DefaultLanguage = language.German

// Country is a single code/name pair from the list.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultCountries parses the embedded list. Every call re-reads the data so
// callers never share a slice.
func DefaultCountries(tag language.Tag) ([]Country, error) {
	f, err := dataFS.Open(defaultListPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Parse(f, tag)
}

// Parse reads `CODE;Name` lines and returns the countries sorted by name using
// collation rules for tag. Blank lines and lines without both a code and a
// name are skipped; only read errors are reported.
func Parse(r io.Reader, tag language.Tag) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	out := make([]Country, 0, 256)
	for scanner.Scan() {
		country, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		out = append(out, country)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	SortByName(out, tag)
	return out, nil
}

// ParseString is Parse over an in-memory list with the default language.
func ParseString(data string) []Country {
	out, _ := Parse(strings.NewReader(data), DefaultLanguage)
	return out
}

func parseLine(raw string) (Country, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Country{}, false
	}

	parts := strings.Split(line, fieldSeparator)
	if len(parts) < 2 {
		return Country{}, false
	}

	code := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if code == "" || name == "" {
		return Country{}, false
	}
	return Country{Code: code, Name: name}, true
}

// SortByName orders list in place by name, then code for equal names.
func SortByName(list []Country, tag language.Tag) {
	if len(list) < 2 {
		return
	}
	if tag == language.Und {
		tag = DefaultLanguage
	}
	// Collators keep scratch buffers; one per sort.
	c := collate.New(tag)
	sort.SliceStable(list, func(i, j int) bool {
		if cmp := c.CompareString(list[i].Name, list[j].Name); cmp != 0 {
			return cmp < 0
		}
		return list[i].Code < list[j].Code
	})
}

// NameFor returns the display name for code, or code itself when the list has
// no exact match.
func NameFor(list []Country, code string) string {
	for _, country := range list {
		if country.Code == code {
			return country.Name
		}
	}
	return code
}
