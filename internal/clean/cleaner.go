// Package clean turns normalized tables into validated transaction records.
package clean

import (
	"strings"
	"time"

	"fintrend/internal/core"
	"fintrend/internal/ingest"
)

// dateLayouts are tried in order for best-effort date parsing.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// directionAliases maps the abbreviations banks actually emit.
var directionAliases = map[string]core.Direction{
	"D": core.Debit, "DR": core.Debit, "DEB": core.Debit, "DEBIT": core.Debit,
	"C": core.Credit, "CR": core.Credit, "CRE": core.Credit, "CREDIT": core.Credit,
}

// Cleaner parses dates and amounts, derives transaction direction, and drops
// rows that cannot be validated.
//
// Rows whose type string is unrecognized get DefaultDirection. The historical
// default is Debit: unknown types are treated as outflows. That is a policy
// choice, not an accident, and callers that disagree can set
// DefaultDirection to Credit.
type Cleaner struct {
	DefaultDirection core.Direction
}

// New returns a Cleaner with the documented Debit default.
func New() *Cleaner {
	return &Cleaner{DefaultDirection: core.Debit}
}

// Clean converts the table into transactions. Rows missing a parseable date
// or amount are excluded, never zero-filled; the count of exclusions is
// returned so callers can log and tests can assert on it.
func (c *Cleaner) Clean(t ingest.Table) ([]core.Transaction, int) {
	txs := make([]core.Transaction, 0, t.Len())
	dropped := 0

	for i := 0; i < t.Len(); i++ {
		date, ok := parseDate(t.Cell(i, "date"))
		if !ok {
			dropped++
			continue
		}
		amount, err := core.ParseAmount(t.Cell(i, "amount"))
		if err != nil {
			dropped++
			continue
		}

		txs = append(txs, core.Transaction{
			Date:        date,
			Description: strings.TrimSpace(t.Cell(i, "description")),
			Amount:      amount,
			Direction:   c.parseDirection(t.Cell(i, "type")),
			Account:     strings.TrimSpace(t.Cell(i, "account")),
			Mode:        strings.TrimSpace(t.Cell(i, "mode")),
		})
	}

	return txs, dropped
}

func (c *Cleaner) parseDirection(raw string) core.Direction {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if d, ok := directionAliases[key]; ok {
		return d
	}
	if c.DefaultDirection == core.Credit {
		return core.Credit
	}
	return core.Debit
}

func parseDate(raw string) (core.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), true
		}
	}
	return core.Date{}, false
}
