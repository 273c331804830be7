package app

import (
	"net/http"

	"github.com/tennergrid/tenner-server/internal/handlers"
	"github.com/tennergrid/tenner-server/internal/middleware"
	"github.com/tennergrid/tenner-server/internal/tenner"
)

func (a *App) loadRoutes() {
	puzzle := handlers.NewPuzzleHandler(a.log, a.db, a.ws, tenner.NewRand())

	a.router.HandleFunc("POST /puzzle", puzzle.Create)
	a.router.HandleFunc("GET /puzzle/daily", puzzle.Daily)
	a.router.HandleFunc("GET /puzzle/{id}", puzzle.Fetch)
	a.router.HandleFunc("/puzzle/{id}/connect", puzzle.ConnectWS)

	a.router.HandleFunc("POST /solve", puzzle.Solve)
	a.router.HandleFunc("POST /verify", puzzle.Verify)
	a.router.HandleFunc("POST /check", puzzle.Check)
	a.router.HandleFunc("POST /hint", puzzle.Hint)

	if a.jwt != nil {
		a.router.Handle("POST /puzzles", middleware.Wrap(
			http.HandlerFunc(puzzle.CreateBatch),
			middleware.RequireAdmin(a.log, a.jwt),
		))
	}
}
