package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// TMDB caps paging at 500.
const maxTMDBPage = 500

func (h *Handlers) searchMovies(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1, 1, maxTMDBPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Movies.SearchMovies(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) nowPlaying(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1, 1, maxTMDBPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Movies.NowPlaying(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := positiveID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.Movies.GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, m)
}

func (h *Handlers) searchPeople(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1, 1, maxTMDBPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Movies.SearchPeople(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getPerson(w http.ResponseWriter, r *http.Request) {
	id, err := positiveID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Movies.GetPerson(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, p)
}
