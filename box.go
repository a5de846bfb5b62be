package geochip

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Box is an axis-aligned pixel rectangle. Rows grow downwards, so in
// (x, y) terms x is the column and y the row.
type Box struct {
	RowMin int
	ColMin int
	RowMax int
	ColMax int
}

// Window is the reader window format ((row_start, row_stop), (col_start, col_stop)).
type Window [2][2]int

func NewBox(rowMin, colMin, rowMax, colMax int) Box {
	if rowMin > rowMax {
		rowMin, rowMax = rowMax, rowMin
	}
	if colMin > colMax {
		colMin, colMax = colMax, colMin
	}
	return Box{RowMin: rowMin, ColMin: colMin, RowMax: rowMax, ColMax: colMax}
}

func MakeSquare(row, col, size int) Box {
	return NewBox(row, col, row+size, col+size)
}

func BoxFromWindow(w Window) Box {
	return NewBox(w[0][0], w[1][0], w[0][1], w[1][1])
}

// 外包框坐标四舍五入为Box
func BoxFromBound(b orb.Bound) Box {
	return NewBox(roundInt(b.Min[1]), roundInt(b.Min[0]), roundInt(b.Max[1]), roundInt(b.Max[0]))
}

func (b Box) Width() int {
	return b.ColMax - b.ColMin
}

func (b Box) Height() int {
	return b.RowMax - b.RowMin
}

func (b Box) Area() int {
	return b.Width() * b.Height()
}

func (b Box) Empty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

func (b Box) Window() Window {
	return Window{{b.RowMin, b.RowMax}, {b.ColMin, b.ColMax}}
}

func (b Box) Tuple() [4]int {
	return [4]int{b.RowMin, b.ColMin, b.RowMax, b.ColMax}
}

func (b Box) Translate(dRow, dCol int) Box {
	return Box{b.RowMin + dRow, b.ColMin + dCol, b.RowMax + dRow, b.ColMax + dCol}
}

func (b Box) Contains(row, col int) bool {
	return row >= b.RowMin && row < b.RowMax && col >= b.ColMin && col < b.ColMax
}

// 两个Box的交集，无交集时ok为false
func (b Box) Intersection(o Box) (ret Box, ok bool) {
	ret = Box{
		RowMin: max(b.RowMin, o.RowMin),
		ColMin: max(b.ColMin, o.ColMin),
		RowMax: min(b.RowMax, o.RowMax),
		ColMax: min(b.ColMax, o.ColMax),
	}
	ok = !ret.Empty()
	return
}

// 闭合的5点外环，点为(x, y) = (col, row)
func (b Box) GeoJSONCoordinates() orb.Ring {
	xmin, ymin := float64(b.ColMin), float64(b.RowMin)
	xmax, ymax := float64(b.ColMax), float64(b.RowMax)
	return orb.Ring{
		{xmin, ymin},
		{xmin, ymax},
		{xmax, ymax},
		{xmax, ymin},
		{xmin, ymin},
	}
}

func (b Box) Polygon() orb.Polygon {
	return orb.Polygon{b.GeoJSONCoordinates()}
}

func (b Box) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(b.ColMin), float64(b.RowMin)},
		Max: orb.Point{float64(b.ColMax), float64(b.RowMax)},
	}
}

func (b Box) String() string {
	return fmt.Sprintf("Box(%d, %d, %d, %d)", b.RowMin, b.ColMin, b.RowMax, b.ColMax)
}
