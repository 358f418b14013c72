package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinefilia/internal/domain"
)

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.Users.Signup(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	// signing up logs the user in
	sess, err := h.Users.Login(r.Context(), domain.LoginInput{Email: in.Email, Password: in.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Users.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) verify(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.GetUser(r.Context(), Caller(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// listUsers serves ?ids=a,b batch lookups; no ids lists everyone.
func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	us, err := h.Users.ListUsers(r.Context(), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, us)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, u)
}

func (h *Handlers) editUser(w http.ResponseWriter, r *http.Request) {
	var p domain.UserPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Users.EditUser(r.Context(), Caller(r.Context()), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
