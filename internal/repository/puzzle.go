package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tennergrid/tenner-server/internal/tenner"
)

type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

// PuzzleRow mirrors the puzzle table. Grids are stored as jsonb (nested
// arrays, null = empty cell); the seed keeps its bit pattern through the
// signed bigint column.
type PuzzleRow struct {
	PuzzleID   int64
	Rows       int32
	Cols       int32
	Difficulty string
	Seed       int64
	TargetSums []int32
	Initial    []byte
	Solution   []byte
	DailyDate  pgtype.Date
	CreatedAt  pgtype.Timestamptz
}

func (r *PuzzleRow) Puzzle() (*tenner.Puzzle, error) {
	p := &tenner.Puzzle{
		ID:         r.PuzzleID,
		Rows:       int(r.Rows),
		Cols:       int(r.Cols),
		Difficulty: tenner.Difficulty(r.Difficulty),
		Seed:       uint64(r.Seed),
		TargetSums: make([]int, len(r.TargetSums)),
	}
	for i, s := range r.TargetSums {
		p.TargetSums[i] = int(s)
	}
	if err := json.Unmarshal(r.Initial, &p.Initial); err != nil {
		return nil, fmt.Errorf("db returned invalid puzzle.initial: %w", err)
	}
	if err := json.Unmarshal(r.Solution, &p.Solution); err != nil {
		return nil, fmt.Errorf("db returned invalid puzzle.solution: %w", err)
	}
	return p, nil
}

func puzzleArgs(p *tenner.Puzzle) (pgx.NamedArgs, error) {
	initial, err := json.Marshal(p.Initial)
	if err != nil {
		return nil, err
	}
	solution, err := json.Marshal(p.Solution)
	if err != nil {
		return nil, err
	}
	sums := make([]int32, len(p.TargetSums))
	for i, s := range p.TargetSums {
		sums[i] = int32(s)
	}
	return pgx.NamedArgs{
		"rows":        p.Rows,
		"cols":        p.Cols,
		"difficulty":  string(p.Difficulty),
		"seed":        int64(p.Seed),
		"target_sums": sums,
		"initial":     initial,
		"solution":    solution,
	}, nil
}

func (q *Queries) CreatePuzzle(ctx context.Context, p *tenner.Puzzle) (*PuzzleRow, error) {
	args, err := puzzleArgs(p)
	if err != nil {
		return nil, err
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO puzzle (
			rows, cols, difficulty, seed, target_sums, initial, solution
		)
		VALUES (
			@rows, @cols, @difficulty, @seed, @target_sums, @initial, @solution
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleRow])
}

func (q *Queries) FetchPuzzle(ctx context.Context, puzzleId int64) (*PuzzleRow, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM puzzle WHERE puzzle_id = $1", puzzleId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleRow])
}

func (q *Queries) FetchDailyPuzzle(ctx context.Context, date time.Time) (*PuzzleRow, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM puzzle WHERE daily_date = $1", date,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleRow])
}

// CreateDailyPuzzle inserts the puzzle for date. The unique constraint on
// daily_date makes concurrent first requests race cleanly: the loser gets
// an integrity violation and re-fetches.
func (q *Queries) CreateDailyPuzzle(ctx context.Context, p *tenner.Puzzle, date time.Time) (*PuzzleRow, error) {
	args, err := puzzleArgs(p)
	if err != nil {
		return nil, err
	}
	args["daily_date"] = date
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO puzzle (
			rows, cols, difficulty, seed, target_sums, initial, solution, daily_date
		)
		VALUES (
			@rows, @cols, @difficulty, @seed, @target_sums, @initial, @solution, @daily_date
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleRow])
}

func (q *Queries) CreatePuzzles(ctx context.Context, puzzles []*tenner.Puzzle) ([]*PuzzleRow, error) {
	created := make([]*PuzzleRow, 0, len(puzzles))
	for _, p := range puzzles {
		row, err := q.CreatePuzzle(ctx, p)
		if err != nil {
			return created, err
		}
		created = append(created, row)
	}
	return created, nil
}
