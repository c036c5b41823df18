package api

import (
	"net/http"
	"time"

	"contesthub/internal/api/handler"
	"contesthub/internal/api/middleware"
	"contesthub/internal/app/service"
	"contesthub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	contestService *service.ContestService,
	paymentService *service.PaymentService,
	submissionService *service.SubmissionService,
	leaderboardService *service.LeaderboardService,
	roleChecker *middleware.RoleChecker,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Verifies the bearer token when present, puts claims in context.
	// Authenticator (per route group) decides whether a token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ContestHub Server is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	handler.NewAuthHandler(authService).RegisterRoutes(r)
	handler.NewUserHandler(userService).RegisterRoutes(r, roleChecker)
	handler.NewContestHandler(contestService).RegisterRoutes(r, roleChecker)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(r)
	handler.NewSubmissionHandler(submissionService).RegisterRoutes(r, roleChecker)
	handler.NewLeaderboardHandler(leaderboardService).RegisterRoutes(r)

	return r
}

// The reference deployment served a browser frontend from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
