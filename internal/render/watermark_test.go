package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampGridGeometry(t *testing.T) {
	m := Mark{Brand: "notestand", Name: "Ada Lovelace", Ref: "AC-1001"}
	w, h := 600.0, 800.0

	stamps := stampGrid(w, h, m)

	// 3 columns x 4 rows, three text layers per cell.
	require.Len(t, stamps, 36)

	type cell struct{ col, row int }
	cells := map[cell]int{}

	for i := 0; i < len(stamps); i += 3 {
		brand, name, ref := stamps[i], stamps[i+1], stamps[i+2]

		// Layers in a cell share the x offset.
		assert.Equal(t, brand.X, name.X)
		assert.Equal(t, brand.X, ref.X)

		assert.Equal(t, m.Brand, brand.Text)
		assert.InDelta(t, 30.0, brand.Size, 0)
		assert.InDelta(t, 0.3, brand.Alpha, 0)

		assert.Equal(t, m.Name, name.Text)
		assert.InDelta(t, 14.0, name.Size, 0)
		assert.InDelta(t, 0.2, name.Alpha, 0)

		assert.Equal(t, m.Ref, ref.Text)
		assert.InDelta(t, 10.0, ref.Size, 0)
		assert.InDelta(t, 0.3, ref.Alpha, 0)

		for _, s := range []stamp{brand, name, ref} {
			assert.InDelta(t, 30.0, s.Angle, 0)
		}

		// Layer baselines sit at +40, +20, +5 from the cell origin.
		assert.InDelta(t, 20.0, brand.Y-name.Y, 1e-9)
		assert.InDelta(t, 15.0, name.Y-ref.Y, 1e-9)

		col := int((brand.X - 20.0) / (w / 3))
		row := int((brand.Y - 40.0) / (h / 4))
		cells[cell{col, row}]++
	}

	// Every grid position is stamped exactly once.
	require.Len(t, cells, 12)
	for pos, n := range cells {
		assert.Equal(t, 1, n, "cell %+v", pos)
		assert.GreaterOrEqual(t, pos.col, 0)
		assert.Less(t, pos.col, 3)
		assert.GreaterOrEqual(t, pos.row, 0)
		assert.Less(t, pos.row, 4)
	}
}

func TestStampGridScalesWithPage(t *testing.T) {
	m := Mark{Brand: "b", Name: "n", Ref: "r"}

	small := stampGrid(300, 400, m)
	large := stampGrid(600, 800, m)

	require.Len(t, small, 36)
	require.Len(t, large, 36)

	// Cell origins follow col*(w/3)+20.
	assert.InDelta(t, 120.0, small[3*4].X, 1e-9)  // col 1 on 300pt page
	assert.InDelta(t, 220.0, large[3*4].X, 1e-9)  // col 1 on 600pt page
}
