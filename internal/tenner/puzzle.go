package tenner

import "fmt"

// Puzzle is the finished artifact handed to consumers: the playable grid
// with holes, the full solution, and the per-column target sums.
//
// Invariants, guaranteed by the generator and checked by Check:
//   - Solution is a complete valid grid for TargetSums;
//   - every filled cell of Initial equals the same cell of Solution;
//   - Initial has exactly one completion (which is Solution).
type Puzzle struct {
	ID         int64      `json:"id,omitempty"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Difficulty Difficulty `json:"difficulty"`
	Seed       uint64     `json:"seed,omitempty"`
	TargetSums []int      `json:"target_sums"`
	Initial    Grid       `json:"initial"`
	Solution   Grid       `json:"solution,omitempty"`
}

// Check verifies the puzzle invariants. Generated puzzles satisfy them by
// construction; this is the authoritative check for puzzles loaded from
// outside (the db, a request body).
func (p *Puzzle) Check() error {
	if p.Initial.Rows != p.Rows || p.Initial.Cols != p.Cols ||
		p.Solution.Rows != p.Rows || p.Solution.Cols != p.Cols {
		return fmt.Errorf("%w: declared %dx%d, initial %dx%d, solution %dx%d",
			ErrDimensionMismatch, p.Rows, p.Cols,
			p.Initial.Rows, p.Initial.Cols, p.Solution.Rows, p.Solution.Cols)
	}
	if err := p.Solution.shape(p.TargetSums); err != nil {
		return err
	}
	if !IsPuzzleComplete(&p.Solution, p.TargetSums) {
		return fmt.Errorf("solution grid is not a valid completion")
	}
	for i, c := range p.Initial.Cells {
		if c != Empty && c != p.Solution.Cells[i] {
			return fmt.Errorf("initial grid disagrees with solution at cell %d", i)
		}
	}
	unique, err := HasUniqueSolution(p.Initial, p.TargetSums)
	if err != nil {
		return err
	}
	if !unique {
		return fmt.Errorf("initial grid does not have a unique solution")
	}
	return nil
}
