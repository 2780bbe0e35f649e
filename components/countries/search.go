package countries

import (
	"sort"
	"strings"
)

// Option is a select option as emitted by the handler.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Search filters list by a case-insensitive substring of name or code. Name
// prefix matches come first; otherwise the input order is kept.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(list) <= limit {
				return append([]Country{}, list...)
			}
			return append([]Country{}, list[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 16)
	for _, country := range list {
		lowerName := strings.ToLower(country.Name)
		lowerCode := strings.ToLower(country.Code)
		if !strings.Contains(lowerName, q) && lowerCode != q {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  country,
			isPrefix: lowerCode == q || strings.HasPrefix(lowerName, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.country)
	}
	return out
}

func SearchOptions(list []Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	return ToOptions(results)
}

// ToOptions maps countries onto value/label pairs, code as value.
func ToOptions(list []Country) []Option {
	out := make([]Option, 0, len(list))
	for _, country := range list {
		out = append(out, Option{Value: country.Code, Label: country.Name})
	}
	return out
}

type matchedCountry struct {
	country  Country
	isPrefix bool
}
