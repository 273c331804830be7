package tenner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Cell holds a digit in [0,9], or Empty.
type Cell int8

const Empty Cell = -1

func (c Cell) String() string {
	if c == Empty {
		return "."
	}
	return fmt.Sprintf("%d", int8(c))
}

// Position addresses a single cell. Equality is structural.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a Rows x Cols board stored row-major. A grid is owned by
// whichever routine is mutating it; backtracking code places a value and
// must clear it again on every failure path. Share a grid only via Clone.
type Grid struct {
	Rows, Cols int
	Cells      []Cell
}

func NewGrid(rows, cols int) Grid {
	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = Empty
	}
	return Grid{Rows: rows, Cols: cols, Cells: cells}
}

func (g *Grid) index(p Position) int {
	return p.Row*g.Cols + p.Col
}

func (g *Grid) InBounds(p Position) bool {
	return 0 <= p.Row && p.Row < g.Rows && 0 <= p.Col && p.Col < g.Cols
}

func (g *Grid) At(p Position) Cell {
	return g.Cells[g.index(p)]
}

func (g *Grid) Set(p Position, v Cell) {
	g.Cells[g.index(p)] = v
}

func (g *Grid) Clear(p Position) {
	g.Cells[g.index(p)] = Empty
}

func (g *Grid) Clone() Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

func (g *Grid) FilledCount() (count int) {
	for _, c := range g.Cells {
		if c != Empty {
			count++
		}
	}
	return
}

// ColumnSum returns the sum of the filled cells in col and how many cells
// of that column are still empty.
func (g *Grid) ColumnSum(col int) (sum, empty int) {
	for row := 0; row < g.Rows; row++ {
		c := g.Cells[row*g.Cols+col]
		if c == Empty {
			empty++
		} else {
			sum += int(c)
		}
	}
	return
}

// shape reports whether the grid's backing slice matches its declared
// dimensions and the target sums cover every column.
func (g *Grid) shape(targetSums []int) error {
	if g.Rows < 1 || g.Cols < 1 || len(g.Cells) != g.Rows*g.Cols {
		return fmt.Errorf("%w: %dx%d grid with %d cells",
			ErrDimensionMismatch, g.Rows, g.Cols, len(g.Cells))
	}
	if len(targetSums) != g.Cols {
		return fmt.Errorf("%w: %d target sums for %d columns",
			ErrDimensionMismatch, len(targetSums), g.Cols)
	}
	return nil
}

func (g Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			fmt.Fprint(&b, g.Cells[row*g.Cols+col].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// MarshalJSON encodes the grid as nested arrays with null for empty cells,
// the shape stored in the db and served to clients.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]*int8, g.Rows)
	for row := 0; row < g.Rows; row++ {
		rows[row] = make([]*int8, g.Cols)
		for col := 0; col < g.Cols; col++ {
			if c := g.Cells[row*g.Cols+col]; c != Empty {
				v := int8(c)
				rows[row][col] = &v
			}
		}
	}
	return json.Marshal(rows)
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*int8
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: empty grid", ErrDimensionMismatch)
	}
	cols := len(rows[0])
	cells := make([]Cell, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return fmt.Errorf("%w: ragged rows", ErrDimensionMismatch)
		}
		for _, v := range row {
			if v == nil {
				cells = append(cells, Empty)
			} else if *v < 0 || *v > 9 {
				return fmt.Errorf("cell value %d out of range", *v)
			} else {
				cells = append(cells, Cell(*v))
			}
		}
	}
	g.Rows = len(rows)
	g.Cols = cols
	g.Cells = cells
	return nil
}
