package ingest

import (
	"regexp"
	"strings"
)

// CanonicalColumns are the columns every normalized table carries, in order.
// Missing ones are present but empty; validation happens later in the cleaner.
var CanonicalColumns = []string{"date", "description", "amount", "type", "account", "mode"}

// synonym lists are evaluated in order: the first alias found in the input
// wins. Ordering is load-bearing, so these stay explicit slices, not sets.
var columnSynonyms = []struct {
	canonical string
	aliases   []string
}{
	{"date", []string{"date", "txn_date", "transaction_date", "posting_date"}},
	{"description", []string{"description", "narration", "merchant", "details"}},
	{"amount", []string{"amount", "amt", "inr", "value"}},
	{"type", []string{"type", "dr_cr", "credit_debit", "transaction_type"}},
	{"account", []string{"account", "account_no", "account_number", "acct"}},
	{"mode", []string{"mode", "channel", "payment_mode", "method"}},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumnName lowercases a header and collapses punctuation to
// underscores, so "Posting Date" and "posting-date" both match "posting_date".
func NormalizeColumnName(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(s, "_")
}

// Normalize maps arbitrary input columns onto the canonical schema.
//
// Each canonical column takes the first matching alias from the input
// headers; unmatched canonical columns become empty columns so downstream
// stages can rely on their presence. Input columns that matched nothing are
// preserved verbatim after the canonical six.
func Normalize(in Table) Table {
	norm := make(map[string]int, len(in.Columns))
	for i, c := range in.Columns {
		key := NormalizeColumnName(c)
		if _, exists := norm[key]; !exists {
			norm[key] = i
		}
	}

	mapped := make(map[string]int, len(CanonicalColumns)) // canonical -> input index
	used := make(map[int]bool, len(CanonicalColumns))
	for _, syn := range columnSynonyms {
		for _, alias := range syn.aliases {
			if idx, ok := norm[NormalizeColumnName(alias)]; ok {
				mapped[syn.canonical] = idx
				used[idx] = true
				break
			}
		}
	}

	out := Table{Columns: append([]string(nil), CanonicalColumns...)}
	var extras []int
	for i := range in.Columns {
		if !used[i] {
			extras = append(extras, i)
			out.Columns = append(out.Columns, in.Columns[i])
		}
	}

	out.Rows = make([][]string, len(in.Rows))
	for r, row := range in.Rows {
		dst := make([]string, 0, len(out.Columns))
		for _, canonical := range CanonicalColumns {
			if idx, ok := mapped[canonical]; ok && idx < len(row) {
				dst = append(dst, row[idx])
			} else {
				dst = append(dst, "")
			}
		}
		for _, idx := range extras {
			if idx < len(row) {
				dst = append(dst, row[idx])
			} else {
				dst = append(dst, "")
			}
		}
		out.Rows[r] = dst
	}

	return out
}
