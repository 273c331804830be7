package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/tennergrid/tenner-server/internal/config"
	"github.com/tennergrid/tenner-server/internal/repository"
	"github.com/tennergrid/tenner-server/internal/tenner"
)

// Daily puzzles are generated on first request with a seed derived from the
// date, so every instance of the service mints the same grid.
var dailyParams = tenner.Params{
	Rows:       5,
	Cols:       tenner.DefaultCols,
	Difficulty: tenner.Medium,
}

type PuzzleHandler struct {
	log  *logrus.Logger
	repo *repository.Queries
	ws   *config.WebSocket
	rnd  tenner.Rand
}

func NewPuzzleHandler(
	log *logrus.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	rnd tenner.Rand,
) *PuzzleHandler {
	return &PuzzleHandler{
		log:  log,
		repo: repository.New(db),
		ws:   ws,
		rnd:  rnd,
	}
}

// Create generates a puzzle from query params and stores it. Without an
// explicit seed one is drawn from the handler's RNG and recorded, so any
// stored puzzle can be regenerated.
func (h *PuzzleHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreatePuzzleDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	params, err := dto.Params()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	seed := dto.Seed
	if !dto.HasSeed {
		seed = h.rnd.Uint64()
	}

	puzzle, err := tenner.GenerateSeeded(params, seed, 0)
	if errors.Is(err, tenner.ErrInvalidParams) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to generate puzzle")
		return
	}

	row, err := h.repo.CreatePuzzle(r.Context(), puzzle)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to store puzzle")
		return
	}

	h.sendPuzzle(w, row, r.URL.Query().Get("solution") == "1")
}

func (h *PuzzleHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	puzzleId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	row, err := h.repo.FetchPuzzle(r.Context(), puzzleId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch puzzle from db")
		return
	}

	h.sendPuzzle(w, row, r.URL.Query().Get("solution") == "1")
}

// Daily returns the puzzle of the day, generating and storing it on first
// request. Two instances may race on the insert; the unique constraint on
// daily_date picks a winner and the loser re-fetches.
func (h *PuzzleHandler) Daily(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	row, err := h.repo.FetchDailyPuzzle(r.Context(), today)
	if err == nil {
		h.sendPuzzle(w, row, false)
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch daily puzzle from db")
		return
	}

	seed := uint64(today.Year())*10000 + uint64(today.Month())*100 + uint64(today.Day())
	puzzle, err := tenner.GenerateSeeded(dailyParams, seed, 0)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to generate daily puzzle")
		return
	}

	row, err = h.repo.CreateDailyPuzzle(r.Context(), puzzle, today)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		row, err = h.repo.FetchDailyPuzzle(r.Context(), today)
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to store daily puzzle")
		return
	}

	h.sendPuzzle(w, row, false)
}

// CreateBatch generates count puzzles concurrently and stores them all.
// Admin only; sits behind the bearer-token middleware.
func (h *PuzzleHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	batch, err := ParseBatchDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	dto, err := ParseCreatePuzzleDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	params, err := dto.Params()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	seed := dto.Seed
	if !dto.HasSeed {
		seed = h.rnd.Uint64()
	}

	puzzles, err := tenner.GenerateBatch(r.Context(), params, batch.Count, seed)
	if errors.Is(err, tenner.ErrInvalidParams) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("batch generation failed")
		return
	}

	rows, err := h.repo.CreatePuzzles(r.Context(), puzzles)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to store batch")
		return
	}

	dtos := make([]*PuzzleDTO, 0, len(rows))
	for _, row := range rows {
		d, err := NewPuzzleDTO(row, false)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.log.WithError(err).Error("stored puzzle round-trip failed")
			return
		}
		dtos = append(dtos, d)
	}
	sendJSONOrLog(w, h.log, dtos)
}

// Solve completes an ad-hoc grid. No solution is an unprocessable request,
// not a server error.
func (h *PuzzleHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var dto GridDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	solution, err := tenner.Solve(dto.Grid, dto.TargetSums)
	if errors.Is(err, tenner.ErrDimensionMismatch) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if errors.Is(err, tenner.ErrNoSolution) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("solve failed")
		return
	}

	sendJSONOrLog(w, h.log, map[string]any{"solution": solution})
}

// Verify reports whether an ad-hoc grid has exactly one completion.
func (h *PuzzleHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var dto GridDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	unique, err := tenner.HasUniqueSolution(dto.Grid, dto.TargetSums)
	if errors.Is(err, tenner.ErrDimensionMismatch) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("uniqueness check failed")
		return
	}

	sendJSONOrLog(w, h.log, map[string]bool{"unique": unique})
}

// Check probes a single move against the client's current grid: is the
// value placeable, and which cells clash with it.
func (h *PuzzleHandler) Check(w http.ResponseWriter, r *http.Request) {
	var dto GridDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	pos, err := dto.Position()
	if err != nil || dto.Value == nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(errors.New("row, col and value are required")))
		return
	}
	// Set indexes the flat cell slice unchecked, so bounds have to hold
	// before the grid is touched.
	if !dto.Grid.InBounds(pos) || *dto.Value < 0 || *dto.Value > 9 {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(errors.New("cell position or value out of range")))
		return
	}

	grid := dto.Grid.Clone()
	valid := tenner.IsValidPlacement(&grid, pos, tenner.Cell(*dto.Value))
	grid.Set(pos, tenner.Cell(*dto.Value))
	conflicts := tenner.DetectConflicts(&grid, pos)

	sendJSONOrLog(w, h.log, map[string]any{
		"valid":     valid,
		"conflicts": conflicts,
	})
}

// Hint returns candidate values: for the requested cell if row/col are
// present, otherwise for the most constrained empty cell.
func (h *PuzzleHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var dto GridDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	if dto.Row != nil && dto.Col != nil {
		pos := tenner.Position{Row: *dto.Row, Col: *dto.Col}
		values := tenner.PossibleValues(&dto.Grid, dto.TargetSums, pos)
		sendJSONOrLog(w, h.log, map[string]any{
			"row": pos.Row, "col": pos.Col, "values": values,
		})
		return
	}

	pos, values, found := tenner.NextHint(&dto.Grid, dto.TargetSums)
	if !found {
		w.WriteHeader(http.StatusUnprocessableEntity)
		sendJSONOrLog(w, h.log, wrapError(errors.New("grid is already complete")))
		return
	}
	sendJSONOrLog(w, h.log, map[string]any{
		"row": pos.Row, "col": pos.Col, "values": values,
	})
}

func (h *PuzzleHandler) sendPuzzle(w http.ResponseWriter, row *repository.PuzzleRow, includeSolution bool) {
	dto, err := NewPuzzleDTO(row, includeSolution)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("stored puzzle round-trip failed")
		return
	}
	sendJSONOrLog(w, h.log, dto)
}
