package render

// Watermark layout: a fixed 3-column by 4-row grid of cells per page. Each
// cell carries three rotated translucent text layers (brand, viewer name,
// secondary identifier) so a cropped screenshot still contains at least one
// identifying cell.

const (
	gridCols = 3
	gridRows = 4

	cellOffsetX = 20.0
	markAngle   = 30.0
)

// stamp is one text layer placed on a page, in point coordinates.
type stamp struct {
	Text  string
	X     float64
	Y     float64
	Size  float64
	Alpha float64
	Angle float64
}

// stampGrid returns every text layer for one page of width w and height h.
// Layout is fixed: 12 cells, three layers each, rotated 30 degrees.
func stampGrid(w, h float64, m Mark) []stamp {
	stamps := make([]stamp, 0, gridCols*gridRows*3)
	cellW := w / gridCols
	cellH := h / gridRows

	for col := 0; col < gridCols; col++ {
		for row := 0; row < gridRows; row++ {
			x := float64(col)*cellW + cellOffsetX
			y := float64(row) * cellH
			stamps = append(stamps,
				stamp{Text: m.Brand, X: x, Y: y + 40, Size: 30, Alpha: 0.3, Angle: markAngle},
				stamp{Text: m.Name, X: x, Y: y + 20, Size: 14, Alpha: 0.2, Angle: markAngle},
				stamp{Text: m.Ref, X: x, Y: y + 5, Size: 10, Alpha: 0.3, Angle: markAngle},
			)
		}
	}
	return stamps
}
