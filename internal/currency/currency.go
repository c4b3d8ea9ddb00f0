// Package currency holds the demonstration values stored in cover trees:
// ISO-4217 currencies keyed by their three-letter code.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/currency"
)

var ErrInvalidCode = errors.New("not an ISO-4217 currency code")

// Record is a currency known to the ISO-4217 standard
type Record struct {
	Code string
	Unit currency.Unit
}

func (r Record) String() string { return r.Code }

// Parse validates code and returns its record. Case and surrounding space
// are ignored.
func Parse(code string) (Record, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return Record{Code: unit.String(), Unit: unit}, nil
}

// ParseAll parses every code, failing on the first invalid one. Duplicates
// are dropped.
func ParseAll(codes []string) ([]Record, error) {
	seen := make(map[string]bool, len(codes))
	records := make([]Record, 0, len(codes))
	for _, code := range codes {
		r, err := Parse(code)
		if err != nil {
			return nil, err
		}
		if seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		records = append(records, r)
	}
	return records, nil
}

// Random returns up to n distinct currencies drawn from a seeded faker. The
// same seed yields the same records in the same order.
func Random(seed int64, n int) []Record {
	faker := gofakeit.New(seed)
	seen := make(map[string]bool, n)
	records := make([]Record, 0, n)

	// The faker draws from a fixed list, so give up after enough repeats
	for attempts := 0; len(records) < n && attempts < n*50; attempts++ {
		r, err := Parse(faker.CurrencyShort())
		if err != nil || seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		records = append(records, r)
	}
	return records
}
