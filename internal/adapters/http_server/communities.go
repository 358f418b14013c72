package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinefilia/internal/domain"
)

func (h *Handlers) listCommunities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Communities.ListCommunities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) searchCommunities(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := domain.CommunitiesQuery{
		Q:      strings.TrimSpace(v.Get("q")),
		Genre:  strings.TrimSpace(v.Get("genre")),
		Member: v.Get("member"),
	}
	var err error
	if q.Decade, err = intParam(r, "decade", 0, 1880, 2100); err != nil {
		writeError(w, r, err)
		return
	}
	if q.Limit, err = intParam(r, "limit", 0, 1, 500); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Communities.SearchCommunities(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getCommunity(w http.ResponseWriter, r *http.Request) {
	c, err := h.Communities.GetCommunity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, c)
}

func (h *Handlers) communityDetails(w http.ResponseWriter, r *http.Request) {
	d, err := h.Communities.CommunityDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, d)
}

func (h *Handlers) createCommunity(w http.ResponseWriter, r *http.Request) {
	var in domain.CommunityInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Communities.CreateCommunity(r.Context(), Caller(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/communities/"+c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) editCommunity(w http.ResponseWriter, r *http.Request) {
	var in domain.CommunityInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Communities.EditCommunity(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) deleteCommunity(w http.ResponseWriter, r *http.Request) {
	if err := h.Communities.DeleteCommunity(r.Context(), Caller(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) followCommunity(w http.ResponseWriter, r *http.Request) {
	c, err := h.Communities.FollowCommunity(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) unfollowCommunity(w http.ResponseWriter, r *http.Request) {
	c, err := h.Communities.UnfollowCommunity(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
