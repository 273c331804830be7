package handlers

import (
	"fmt"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/tennergrid/tenner-server/internal/repository"
	"github.com/tennergrid/tenner-server/internal/tenner"
)

type CreatePuzzleDTO struct {
	Rows       int    `schema:"rows,required"`
	Cols       int    `schema:"cols"`
	Difficulty string `schema:"difficulty,required"`
	Seed       uint64 `schema:"seed"`
	HasSeed    bool   `schema:"-"`
}

func ParseCreatePuzzleDTO(src map[string][]string) (CreatePuzzleDTO, error) {
	var dto CreatePuzzleDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&dto, src); err != nil {
		return dto, err
	}
	dto.HasSeed = len(src["seed"]) > 0
	if dto.Cols == 0 {
		dto.Cols = tenner.DefaultCols
	}
	return dto, nil
}

func (dto CreatePuzzleDTO) Params() (tenner.Params, error) {
	difficulty, err := tenner.ParseDifficulty(dto.Difficulty)
	if err != nil {
		return tenner.Params{}, err
	}
	return tenner.Params{
		Rows:       dto.Rows,
		Cols:       dto.Cols,
		Difficulty: difficulty,
	}, nil
}

type BatchDTO struct {
	Count int `schema:"count,required"`
}

func ParseBatchDTO(src map[string][]string) (BatchDTO, error) {
	var dto BatchDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

// GridDTO is the request body for the stateless solve/verify/check/hint
// endpoints: a grid plus, where relevant, the move being probed.
type GridDTO struct {
	Grid       tenner.Grid `json:"grid"`
	TargetSums []int       `json:"target_sums,omitempty"`
	Row        *int        `json:"row,omitempty"`
	Col        *int        `json:"col,omitempty"`
	Value      *int        `json:"value,omitempty"`
}

func (dto GridDTO) Position() (tenner.Position, error) {
	if dto.Row == nil || dto.Col == nil {
		return tenner.Position{}, fmt.Errorf("row and col are required")
	}
	return tenner.Position{Row: *dto.Row, Col: *dto.Col}, nil
}

type PuzzleDTO struct {
	PuzzleId   string       `json:"puzzle_id"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Difficulty string       `json:"difficulty"`
	Seed       uint64       `json:"seed,omitempty"`
	TargetSums []int        `json:"target_sums"`
	Initial    tenner.Grid  `json:"initial"`
	Solution   *tenner.Grid `json:"solution,omitempty"`
	DailyDate  string       `json:"daily_date,omitempty"`
	CreatedAt  int64        `json:"created_at"`
}

func NewPuzzleDTO(row *repository.PuzzleRow, includeSolution bool) (*PuzzleDTO, error) {
	p, err := row.Puzzle()
	if err != nil {
		return nil, err
	}
	dto := &PuzzleDTO{
		PuzzleId:   strconv.FormatInt(row.PuzzleID, 10),
		Rows:       p.Rows,
		Cols:       p.Cols,
		Difficulty: string(p.Difficulty),
		Seed:       p.Seed,
		TargetSums: p.TargetSums,
		Initial:    p.Initial,
		CreatedAt:  row.CreatedAt.Time.UnixMilli(),
	}
	if includeSolution {
		dto.Solution = &p.Solution
	}
	if row.DailyDate.Valid {
		dto.DailyDate = row.DailyDate.Time.Format("2006-01-02")
	}
	return dto, nil
}
