package domain

import (
	"fmt"
	"math"
	"regexp"
)

// indexArtifactRe matches the unnamed index column some CSV exports carry,
// e.g. "Unnamed: 0".
var indexArtifactRe = regexp.MustCompile(`^Unnamed: \d+$`)

// SwapColumns exchanges the names of columns a and b: every value previously
// under a ends up under b and vice versa. No other column or value changes.
// Both columns must exist.
//
// Row maps allow reading both cells before writing either, so the exchange is
// done directly without a temporary placeholder name.
func SwapColumns(t *Table, a, b string) error {
	if !t.HasColumn(a) {
		return fmt.Errorf("swap columns: %q not in table", a)
	}
	if !t.HasColumn(b) {
		return fmt.Errorf("swap columns: %q not in table", b)
	}
	if a == b {
		return nil
	}
	for _, r := range t.Rows {
		r[a], r[b] = r[b], r[a]
	}
	return nil
}

// ApplyCorrections normalizes two known data defects in place:
// every value in absColumn is replaced by its absolute value, and every value
// in categoryColumn present as a key in corrections is replaced by its mapped
// value. Unmapped category values pass through unchanged. Idempotent.
func ApplyCorrections(t *Table, categoryColumn, absColumn string, corrections map[string]string) error {
	if !t.HasColumn(categoryColumn) {
		return fmt.Errorf("apply corrections: %q not in table", categoryColumn)
	}
	if !t.HasColumn(absColumn) {
		return fmt.Errorf("apply corrections: %q not in table", absColumn)
	}

	for _, r := range t.Rows {
		switch v := r[absColumn].(type) {
		case float64:
			r[absColumn] = math.Abs(v)
		case int64:
			if v < 0 {
				r[absColumn] = -v
			}
		case nil:
			// null passes through
		default:
			return fmt.Errorf("apply corrections: non-numeric %q value %v", absColumn, v)
		}

		if s, ok := r[categoryColumn].(string); ok {
			if corrected, ok := corrections[s]; ok {
				r[categoryColumn] = corrected
			}
		}
	}
	return nil
}

// LeftJoin merges left and right on the shared key column. Every left row
// appears in the output; rows without a matching key carry nil for all right
// columns. Right rows with no matching left row are dropped. A left row
// matching several right rows is repeated once per match.
//
// Non-key columns may not overlap between the two tables.
func LeftJoin(left, right *Table, key string) (*Table, error) {
	if !left.HasColumn(key) {
		return nil, fmt.Errorf("left join: key %q not in left table", key)
	}
	if !right.HasColumn(key) {
		return nil, fmt.Errorf("left join: key %q not in right table", key)
	}

	rightCols := make([]string, 0, len(right.Columns)-1)
	for _, c := range right.Columns {
		if c == key {
			continue
		}
		if left.HasColumn(c) {
			return nil, fmt.Errorf("left join: column %q present in both tables", c)
		}
		rightCols = append(rightCols, c)
	}

	index := make(map[any][]Row, right.Len())
	for _, r := range right.Rows {
		k := r[key]
		index[k] = append(index[k], r)
	}

	out := NewTable(append(append([]string(nil), left.Columns...), rightCols...)...)
	for _, lr := range left.Rows {
		matches := index[lr[key]]
		if len(matches) == 0 {
			merged := make(Row, len(out.Columns))
			for k, v := range lr {
				merged[k] = v
			}
			for _, c := range rightCols {
				merged[c] = nil
			}
			out.Append(merged)
			continue
		}
		for _, rr := range matches {
			merged := make(Row, len(out.Columns))
			for k, v := range lr {
				merged[k] = v
			}
			for _, c := range rightCols {
				merged[c] = rr[c]
			}
			out.Append(merged)
		}
	}
	return out, nil
}

// DropIndexArtifacts removes columns that are byproducts of CSV export rather
// than data: empty-named columns and "Unnamed: N" columns.
func DropIndexArtifacts(t *Table) {
	for _, c := range append([]string(nil), t.Columns...) {
		if c == "" || indexArtifactRe.MatchString(c) {
			t.DropColumn(c)
		}
	}
}
