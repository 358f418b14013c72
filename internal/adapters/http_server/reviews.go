package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cinefilia/internal/domain"
)

func reviewsQuery(r *http.Request) (domain.ReviewsQuery, error) {
	v := r.URL.Query()
	q := domain.ReviewsQuery{
		Filter: domain.ReviewFilter(v.Get("filter")),
		Movie:  v.Get("movie"),
		Author: v.Get("author"),
	}
	if s := v.Get("movieApiId"); s != "" {
		id, err := positiveID(s)
		if err != nil {
			return q, err
		}
		q.MovieAPIID = id
	}
	limit, err := intParam(r, "limit", 0, 1, 200)
	if err != nil {
		return q, err
	}
	q.Limit = limit
	return q, nil
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q, err := reviewsQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reviews.ListReviews(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) reviewFeed(w http.ResponseWriter, r *http.Request) {
	q, err := reviewsQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reviews.ReviewFeed(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, rv)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rv, err := h.Reviews.CreateReview(r.Context(), Caller(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/reviews/"+rv.ID)
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) editReview(w http.ResponseWriter, r *http.Request) {
	var p domain.ReviewPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	rv, err := h.Reviews.EditReview(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.Reviews.DeleteReview(r.Context(), Caller(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) likeReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.LikeReview(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) unlikeReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.UnlikeReview(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}
