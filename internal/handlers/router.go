package handlers

import (
	"context"
	"net/http"
	"strings"

	"snapgram-backend/internal/middleware"
	"snapgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Deps holds everything the router wires into handlers
type Deps struct {
	Users    *services.UserService
	Posts    *services.PostService
	Comments *services.CommentService
	Tokens   *services.TokenService
	Hub      *services.WSHub

	// AuthLimiter throttles the auth routes when set
	AuthLimiter     *middleware.RateLimiter
	AllowedOrigins  []string
	StrictOwnership bool
	MaxUploadBytes  int64
	// Health reports backing store reachability for /healthz
	Health func(ctx context.Context) error
	// MediaFiles serves locally held uploads under /media when set
	MediaFiles http.Handler
}

// NewRouter builds the HTTP routes
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Users, d.Tokens, d.MaxUploadBytes)
	postHandler := NewPostHandler(d.Posts, d.StrictOwnership, d.MaxUploadBytes)
	commentHandler := NewCommentHandler(d.Comments, d.StrictOwnership)
	userHandler := NewUserHandler(d.Users, d.StrictOwnership)
	wsHandler := NewWebSocketHandler(d.Hub, d.Tokens)

	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(corsMiddleware(d.AllowedOrigins))

	requireAuth := middleware.AuthMiddleware(d.Tokens)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Handler)
			}
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/refreshToken", authHandler.RefreshToken)
		})

		r.Route("/posts", func(r chi.Router) {
			// Public routes
			r.Get("/feed", postHandler.GetFeed)
			r.Get("/view/{postId}", postHandler.GetPost)
			r.Get("/{author}", postHandler.GetAuthorPosts)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/saved/{userId}", postHandler.GetSavedPosts)
				r.Patch("/save/{userId}/{postId}", postHandler.SavePost)
				r.Post("/create/{author}", postHandler.CreatePost)
				r.Put("/edit/{author}/{postId}", postHandler.EditPost)
				r.Patch("/like/{userId}/{postId}", postHandler.LikePost)
				r.Delete("/delete/{author}/{postId}", postHandler.DeletePost)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{postId}", commentHandler.GetComments)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/add/{author}/{postId}", commentHandler.AddComment)
				r.Put("/edit/{author}/{commentId}", commentHandler.EditComment)
				r.Patch("/like/{userId}/{commentId}", commentHandler.LikeComment)
				r.Delete("/delete/{author}/{commentId}", commentHandler.DeleteComment)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{userId}", userHandler.GetProfile)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Patch("/follow/{userId}/{creatorId}", userHandler.Follow)
				r.Delete("/delete/{userId}", userHandler.DeleteAccount)
			})
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	if d.MediaFiles != nil {
		r.Handle("/media/*", http.StripPrefix("/media", d.MediaFiles))
	}

	r.Handle("/metrics", middleware.MetricsHandler())
	r.Get("/healthz", healthHandler(d.Health))

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				respondError(w, "store unavailable", "UNAVAILABLE", http.StatusServiceUnavailable)
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// corsMiddleware handles CORS
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
