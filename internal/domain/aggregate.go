package domain

import (
	"fmt"
	"sort"
)

type groupKey struct {
	station     any
	measurement string
}

// MeanByStation groups rows by (station, measurement), computes the
// arithmetic mean of the value column per group, and pivots the result wide:
// one row per station, one column per distinct measurement name. Combinations
// with no observations are nil, never zero.
//
// Rows whose measurement or value is null (messages no pattern matched) carry
// no group key and are excluded from aggregation.
func MeanByStation(t *Table, stationColumn, measurementColumn, valueColumn string) (*Table, error) {
	for _, c := range []string{stationColumn, measurementColumn, valueColumn} {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("mean by station: %q not in table", c)
		}
	}

	sums := make(map[groupKey]float64)
	counts := make(map[groupKey]int)
	var stations []any
	seenStations := make(map[any]bool)
	var measurements []string
	seenMeasurements := make(map[string]bool)

	for _, r := range t.Rows {
		name, ok := r[measurementColumn].(string)
		if !ok {
			continue
		}
		value, ok := asFloat(r[valueColumn])
		if !ok {
			continue
		}
		station := r[stationColumn]

		k := groupKey{station: station, measurement: name}
		sums[k] += value
		counts[k]++
		if !seenStations[station] {
			seenStations[station] = true
			stations = append(stations, station)
		}
		if !seenMeasurements[name] {
			seenMeasurements[name] = true
			measurements = append(measurements, name)
		}
	}

	sort.Slice(stations, func(i, j int) bool { return lessValue(stations[i], stations[j]) })
	sort.Strings(measurements)

	out := NewTable(append([]string{stationColumn}, measurements...)...)
	for _, station := range stations {
		r := Row{stationColumn: station}
		for _, name := range measurements {
			k := groupKey{station: station, measurement: name}
			if n := counts[k]; n > 0 {
				r[name] = sums[k] / float64(n)
			} else {
				r[name] = nil
			}
		}
		out.Append(r)
	}
	return out, nil
}

// asFloat widens a numeric cell to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// lessValue orders station identifiers: numerically when both sides are
// numeric, lexicographically otherwise.
func lessValue(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
