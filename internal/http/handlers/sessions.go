package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fakepost/internal/orchestrator"
)

// SessionComments generates comments for a session and returns them before
// their pictures exist. Poll SessionSnapshot to pick the pictures up.
func (a *App) SessionComments(w http.ResponseWriter, r *http.Request) {
	var req commentsRequest
	if !a.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	res := a.Gen.GenerateCommentsAsync(generationContext(r), id, req.PostContent, req.NumberOfComments)
	respond(a, w, res, func(v orchestrator.BoardComments) any { return v })
}

func (a *App) SessionSnapshot(w http.ResponseWriter, r *http.Request) {
	board, ok := a.Gen.Sessions().Lookup(chi.URLParam(r, "id"))
	if !ok {
		a.error(w, http.StatusNotFound, "The session was not found.")
		return
	}
	list, token := board.Snapshot()
	a.json(w, http.StatusOK, orchestrator.BoardComments{Comments: list, Token: token})
}
