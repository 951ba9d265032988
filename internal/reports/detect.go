package reports

import (
	"errors"
	"fmt"

	"bankledger/internal/domain"
)

// knownParsers in detection order: the more specific schemas first.
var knownParsers = []struct {
	name string
	fn   func(*Table) ([]domain.MarketRow, error)
}{
	{"wb-detail", ParseWBDetail},
	{"wb-general", ParseWBGeneral},
	{"ozon", ParseOzon},
}

// ParseAny tries each known report schema against the table and returns
// the rows of the first one that resolves. When none match, the
// returned error wraps every per-schema SchemaError, so errors.As still
// identifies it and the batch driver can log and skip the file.
func ParseAny(t *Table) (string, []domain.MarketRow, error) {
	errs := make([]error, 0, len(knownParsers))
	for _, p := range knownParsers {
		rows, err := p.fn(t)
		if err == nil {
			return p.name, rows, nil
		}
		var se *SchemaError
		if !errors.As(err, &se) {
			return p.name, nil, err
		}
		errs = append(errs, se)
	}
	return "", nil, fmt.Errorf("ParseAny: no known schema matched %s: %w", t.File, errors.Join(errs...))
}
