package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fakepost/internal/domain"
)

type templateResponse struct {
	Template domain.Template `json:"template"`
	Found    *bool           `json:"found,omitempty"`
}

func (a *App) LoadTemplate(w http.ResponseWriter, r *http.Request) {
	t, found := a.Templates.Load(r.Context(), chi.URLParam(r, "slot"))
	a.json(w, http.StatusOK, templateResponse{Template: t, Found: &found})
}

func (a *App) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if !a.decode(w, r, &t) {
		return
	}
	saved, err := a.Templates.Save(r.Context(), chi.URLParam(r, "slot"), t)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			a.error(w, http.StatusUnprocessableEntity, domain.MessageOf(err))
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: save template failed")
		a.error(w, http.StatusInternalServerError, "The template could not be saved.")
		return
	}
	a.json(w, http.StatusOK, templateResponse{Template: saved})
}
