package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"

	"github.com/tennergrid/tenner-server/internal/tenner"
)

// playSession is the per-connection working state: the stored puzzle plus
// the grid the player is filling in. Given cells are the initial grid's
// filled cells and cannot be changed.
type playSession struct {
	puzzle *tenner.Puzzle
	grid   tenner.Grid
}

func (s *playSession) given(p tenner.Position) bool {
	return s.puzzle.Initial.At(p) != tenner.Empty
}

type playStateDTO struct {
	Grid      tenner.Grid       `json:"grid"`
	Conflicts []tenner.Position `json:"conflicts"`
	Complete  bool              `json:"complete"`
	Hint      map[string]any    `json:"hint,omitempty"`
}

func (s *playSession) state(hint map[string]any) playStateDTO {
	conflicts := make([]tenner.Position, 0)
	for row := 0; row < s.grid.Rows; row++ {
		for col := 0; col < s.grid.Cols; col++ {
			p := tenner.Position{Row: row, Col: col}
			if s.grid.At(p) != tenner.Empty && len(tenner.DetectConflicts(&s.grid, p)) > 0 {
				conflicts = append(conflicts, p)
			}
		}
	}
	return playStateDTO{
		Grid:      s.grid,
		Conflicts: conflicts,
		Complete:  tenner.IsPuzzleComplete(&s.grid, s.puzzle.TargetSums),
		Hint:      hint,
	}
}

var commandNargs = map[string]int{
	"p": 3, // place row col value
	"x": 2, // clear row col
	"h": 2, // hint: possible values for row col
	"s": 0, // state
	"r": 0, // reveal solution
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d must be an int", i+1)
		}
		out[i] = n
	}
	return out, nil
}

// runCommand applies one text command to the session and returns an
// optional hint payload for the next state message.
func (s *playSession) runCommand(c string) (map[string]any, error) {
	parts := strings.Split(strings.TrimSpace(c), " ")

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return nil, fmt.Errorf("unknown command")
	}
	if nargs != len(parts)-1 {
		return nil, fmt.Errorf("invalid number of arguments")
	}

	args, err := parseInts(parts[1:])
	if err != nil {
		return nil, err
	}

	switch parts[0] {
	case "p":
		p := tenner.Position{Row: args[0], Col: args[1]}
		if !s.grid.InBounds(p) {
			return nil, fmt.Errorf("invalid cell position")
		}
		if s.given(p) {
			return nil, fmt.Errorf("cell is a given")
		}
		if args[2] < 0 || args[2] > 9 {
			return nil, fmt.Errorf("value must be 0..9")
		}
		s.grid.Set(p, tenner.Cell(args[2]))
	case "x":
		p := tenner.Position{Row: args[0], Col: args[1]}
		if !s.grid.InBounds(p) {
			return nil, fmt.Errorf("invalid cell position")
		}
		if s.given(p) {
			return nil, fmt.Errorf("cell is a given")
		}
		s.grid.Clear(p)
	case "h":
		p := tenner.Position{Row: args[0], Col: args[1]}
		if !s.grid.InBounds(p) {
			return nil, fmt.Errorf("invalid cell position")
		}
		return map[string]any{
			"row": p.Row, "col": p.Col,
			"values": tenner.PossibleValues(&s.grid, s.puzzle.TargetSums, p),
		}, nil
	case "s":
		// state is sent after every message anyway
	case "r":
		s.grid = s.puzzle.Solution.Clone()
	}
	return nil, nil
}

// ConnectWS upgrades to a websocket play session against a stored puzzle.
// Same shape as a text protocol REPL: each message carries newline-separated
// commands, each reply is the updated state.
func (h *PuzzleHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
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

	puzzle, err := row.Puzzle()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("db returned invalid puzzle")
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	session := &playSession{
		puzzle: puzzle,
		grid:   puzzle.Initial.Clone(),
	}

	if err := c.WriteJSON(session.state(nil)); err != nil {
		h.log.WithError(err).Warn("unable to write initial state")
		return
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		var hint map[string]any
		for _, cmd := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			hint, err = session.runCommand(cmd)
			if err != nil {
				break
			}
		}
		if err != nil {
			if werr := c.WriteJSON(wrapError(err)); werr != nil {
				h.log.WithError(werr).Warn("unable to write error")
				return
			}
			continue
		}
		if err := c.WriteJSON(session.state(hint)); err != nil {
			h.log.WithError(err).Warn("unable to write state")
			return
		}
	}
}
