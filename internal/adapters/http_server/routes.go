package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cinefilia/internal/app"
	"cinefilia/internal/domain"
)

type Handlers struct {
	Users       *app.UserService
	Reviews     *app.ReviewService
	Communities *app.CommunityService
	Movies      domain.MovieCatalog
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(h.Users))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/login", h.login)
			r.With(RequireAuth).Get("/verify", h.verify)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
			r.With(RequireAuth).Put("/{id}", h.editUser)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.listReviews)
			r.Get("/feed", h.reviewFeed)
			r.Get("/{id}", h.getReview)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.createReview)
				r.Put("/{id}", h.editReview)
				r.Delete("/{id}", h.deleteReview)
				r.Post("/{id}/like", h.likeReview)
				r.Delete("/{id}/like", h.unlikeReview)
			})
		})

		r.Route("/communities", func(r chi.Router) {
			r.Get("/", h.listCommunities)
			r.Get("/search", h.searchCommunities)
			r.Get("/details/{id}", h.communityDetails)
			r.Get("/{id}", h.getCommunity)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", h.createCommunity)
				r.Put("/{id}", h.editCommunity)
				r.Delete("/{id}", h.deleteCommunity)
				r.Post("/{id}/follow", h.followCommunity)
				r.Delete("/{id}/follow", h.unfollowCommunity)
			})
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/search", h.searchMovies)
			r.Get("/now-playing", h.nowPlaying)
			r.Get("/{id}", h.getMovie)
		})
		r.Route("/people", func(r chi.Router) {
			r.Get("/search", h.searchPeople)
			r.Get("/{id}", h.getPerson)
		})
	})
}
