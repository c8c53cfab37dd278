package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldTable() *Table {
	tbl := NewTable("Field_ID", "Annual_yield", "Crop_type", "Elevation")
	tbl.Append(Row{"Field_ID": int64(1), "Annual_yield": "cassaval", "Crop_type": 0.751, "Elevation": -5.0})
	tbl.Append(Row{"Field_ID": int64(2), "Annual_yield": "tea", "Crop_type": 1.104, "Elevation": 820.5})
	return tbl
}

func TestSwapColumns(t *testing.T) {
	t.Run("values exchange, nothing else moves", func(t *testing.T) {
		tbl := fieldTable()
		require.NoError(t, SwapColumns(tbl, "Annual_yield", "Crop_type"))

		assert.Equal(t, 0.751, tbl.Rows[0]["Annual_yield"])
		assert.Equal(t, "cassaval", tbl.Rows[0]["Crop_type"])
		assert.Equal(t, int64(1), tbl.Rows[0]["Field_ID"])
		assert.Equal(t, -5.0, tbl.Rows[0]["Elevation"])
		assert.Equal(t, []string{"Field_ID", "Annual_yield", "Crop_type", "Elevation"}, tbl.Columns)
	})

	t.Run("swap twice is identity", func(t *testing.T) {
		tbl := fieldTable()
		want := tbl.Clone()

		require.NoError(t, SwapColumns(tbl, "Annual_yield", "Crop_type"))
		require.NoError(t, SwapColumns(tbl, "Annual_yield", "Crop_type"))

		if diff := cmp.Diff(want, tbl); diff != "" {
			t.Fatalf("double swap changed table (-want +got):\n%s", diff)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		tbl := fieldTable()
		assert.Error(t, SwapColumns(tbl, "Annual_yield", "Yield"))
		assert.Error(t, SwapColumns(tbl, "Yield", "Crop_type"))
	})

	t.Run("same column is a no-op", func(t *testing.T) {
		tbl := fieldTable()
		want := tbl.Clone()
		require.NoError(t, SwapColumns(tbl, "Elevation", "Elevation"))
		assert.Equal(t, want, tbl)
	})
}

func TestApplyCorrections(t *testing.T) {
	corrections := map[string]string{"cassaval": "cassava", "wheatn": "wheat", "teaa": "tea"}

	t.Run("absolute value and category remap", func(t *testing.T) {
		tbl := NewTable("Field_ID", "Crop_type", "Elevation")
		tbl.Append(Row{"Field_ID": int64(1), "Crop_type": "cassaval", "Elevation": -5.0})
		tbl.Append(Row{"Field_ID": int64(2), "Crop_type": "maize", "Elevation": 12.0})
		tbl.Append(Row{"Field_ID": int64(3), "Crop_type": "wheatn", "Elevation": int64(-40)})

		require.NoError(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))

		assert.Equal(t, "cassava", tbl.Rows[0]["Crop_type"])
		assert.Equal(t, 5.0, tbl.Rows[0]["Elevation"])
		// unmapped value passes through
		assert.Equal(t, "maize", tbl.Rows[1]["Crop_type"])
		assert.Equal(t, 12.0, tbl.Rows[1]["Elevation"])
		assert.Equal(t, "wheat", tbl.Rows[2]["Crop_type"])
		assert.Equal(t, int64(40), tbl.Rows[2]["Elevation"])
	})

	t.Run("scenario BEAN", func(t *testing.T) {
		tbl := NewTable("Field_ID", "Crop_type", "Elevation")
		tbl.Append(Row{"Field_ID": int64(1), "Crop_type": "BEAN", "Elevation": -5.0})

		require.NoError(t, ApplyCorrections(tbl, "Crop_type", "Elevation", map[string]string{"BEAN": "Bean"}))

		assert.Equal(t, Row{"Field_ID": int64(1), "Crop_type": "Bean", "Elevation": 5.0}, tbl.Rows[0])
	})

	t.Run("idempotent", func(t *testing.T) {
		tbl := NewTable("Crop_type", "Elevation")
		tbl.Append(Row{"Crop_type": "teaa", "Elevation": -100.25})

		require.NoError(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))
		once := tbl.Clone()
		require.NoError(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))

		if diff := cmp.Diff(once, tbl); diff != "" {
			t.Fatalf("second application changed table (-want +got):\n%s", diff)
		}
	})

	t.Run("null elevation passes through", func(t *testing.T) {
		tbl := NewTable("Crop_type", "Elevation")
		tbl.Append(Row{"Crop_type": "tea", "Elevation": nil})

		require.NoError(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))
		assert.Nil(t, tbl.Rows[0]["Elevation"])
	})

	t.Run("non-numeric elevation", func(t *testing.T) {
		tbl := NewTable("Crop_type", "Elevation")
		tbl.Append(Row{"Crop_type": "tea", "Elevation": "high"})

		assert.Error(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))
	})

	t.Run("missing columns", func(t *testing.T) {
		tbl := NewTable("Crop_type")
		assert.Error(t, ApplyCorrections(tbl, "Crop_type", "Elevation", corrections))
		assert.Error(t, ApplyCorrections(tbl, "Kind", "Crop_type", corrections))
	})
}

func TestLeftJoin(t *testing.T) {
	left := NewTable("Field_ID", "Crop_type")
	left.Append(Row{"Field_ID": int64(1), "Crop_type": "tea"})
	left.Append(Row{"Field_ID": int64(2), "Crop_type": "wheat"})
	left.Append(Row{"Field_ID": int64(3), "Crop_type": "maize"})

	right := NewTable("Field_ID", "Weather_station")
	right.Append(Row{"Field_ID": int64(1), "Weather_station": int64(0)})
	right.Append(Row{"Field_ID": int64(3), "Weather_station": int64(4)})
	right.Append(Row{"Field_ID": int64(99), "Weather_station": int64(2)}) // no field row

	t.Run("keeps every left row, drops right-only rows", func(t *testing.T) {
		out, err := LeftJoin(left, right, "Field_ID")
		require.NoError(t, err)

		require.Equal(t, 3, out.Len())
		assert.Equal(t, []string{"Field_ID", "Crop_type", "Weather_station"}, out.Columns)
		assert.Equal(t, int64(0), out.Rows[0]["Weather_station"])
		assert.Nil(t, out.Rows[1]["Weather_station"], "unmatched key fills nil")
		assert.Equal(t, int64(4), out.Rows[2]["Weather_station"])
	})

	t.Run("duplicate right keys repeat the left row", func(t *testing.T) {
		dup := right.Clone()
		dup.Append(Row{"Field_ID": int64(1), "Weather_station": int64(7)})

		out, err := LeftJoin(left, dup, "Field_ID")
		require.NoError(t, err)
		assert.Equal(t, 4, out.Len())
	})

	t.Run("key missing", func(t *testing.T) {
		_, err := LeftJoin(left, right, "Site_ID")
		assert.Error(t, err)
	})

	t.Run("overlapping non-key column", func(t *testing.T) {
		clash := NewTable("Field_ID", "Crop_type")
		_, err := LeftJoin(left, clash, "Field_ID")
		assert.Error(t, err)
	})
}

func TestDropIndexArtifacts(t *testing.T) {
	tbl := NewTable("Unnamed: 0", "Field_ID", "", "Unnamed: 12")
	tbl.Append(Row{"Unnamed: 0": int64(0), "Field_ID": int64(1), "": "x", "Unnamed: 12": nil})

	DropIndexArtifacts(tbl)

	assert.Equal(t, []string{"Field_ID"}, tbl.Columns)
	assert.Equal(t, Row{"Field_ID": int64(1)}, tbl.Rows[0])
}
