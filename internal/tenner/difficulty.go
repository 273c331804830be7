package tenner

import "fmt"

// Difficulty only drives how many cells the generator tries to remove.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// PrefilledFraction is the fraction of cells left filled in the initial
// grid. The remover targets totalCells * (1 - fraction) cleared cells.
func (d Difficulty) PrefilledFraction() float64 {
	switch d {
	case Easy:
		return 0.62
	case Medium:
		return 0.50
	case Hard:
		return 0.38
	case Expert:
		return 0.30
	}
	return 0.50
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Expert:
		return true
	}
	return false
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}
