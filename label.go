package geochip

import (
	"sort"
)

// 单个分数或按类别的分数向量
type Score struct {
	Value  float64
	Values []float64
}

func SingleScore(v float64) *Score {
	return &Score{Value: v}
}

func ScoreVector(vs []float64) *Score {
	return &Score{Values: append([]float64(nil), vs...)}
}

func (s *Score) IsVector() bool {
	return s != nil && s.Values != nil
}

type ClassScore struct {
	ClassID int
	Scores  []float64
}

// ChipClassificationLabels maps pixel cells to a class and optional per-class
// scores. Setting a cell with the same bounds replaces its value.
type ChipClassificationLabels struct {
	cells map[Box]ClassScore
}

func NewChipClassificationLabels() *ChipClassificationLabels {
	return &ChipClassificationLabels{cells: map[Box]ClassScore{}}
}

func (l *ChipClassificationLabels) Set(cell Box, classID int, scores []float64) {
	if scores != nil {
		scores = append([]float64(nil), scores...)
	}
	l.cells[cell] = ClassScore{ClassID: classID, Scores: scores}
}

func (l *ChipClassificationLabels) Get(cell Box) (cs ClassScore, ok bool) {
	cs, ok = l.cells[cell]
	return
}

func (l *ChipClassificationLabels) Len() int {
	return len(l.cells)
}

// 按(行, 列)排序的全部单元
func (l *ChipClassificationLabels) Cells() []Box {
	cells := make([]Box, 0, len(l.cells))
	for c := range l.cells {
		cells = append(cells, c)
	}
	sortBoxes(cells)
	return cells
}

// 与window相交的单元
func (l *ChipClassificationLabels) CellsIntersecting(window Box) (cells []Box) {
	for _, c := range l.Cells() {
		if _, ok := c.Intersection(window); ok {
			cells = append(cells, c)
		}
	}
	return
}

func (l *ChipClassificationLabels) Extend(o *ChipClassificationLabels) {
	for c, cs := range o.cells {
		l.cells[c] = cs
	}
}

func sortBoxes(bs []Box) {
	sort.Slice(bs, func(i, j int) bool {
		a, b := bs[i].Tuple(), bs[j].Tuple()
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}

// 目标检测框标签，Scores可为nil
type DetectionLabels struct {
	Boxes    []Box
	ClassIDs []int
	Scores   []*Score
}

func (l *DetectionLabels) Len() int {
	return len(l.Boxes)
}

func (l *DetectionLabels) Append(box Box, classID int, score *Score) {
	l.Boxes = append(l.Boxes, box)
	l.ClassIDs = append(l.ClassIDs, classID)
	l.Scores = append(l.Scores, score)
}
