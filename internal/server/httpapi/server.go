package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/services"
)

// UserService is the slice of the user service the HTTP layer consumes.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	ResendVerificationEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, contentType string, body io.Reader) (*models.User, error)
}

// ContactService is the slice of the contact service the HTTP layer consumes.
type ContactService interface {
	Create(ctx context.Context, contact *models.Contact, ownerID string) (*models.Contact, error)
	Get(ctx context.Context, id, ownerID string) (*models.Contact, error)
	List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact, ownerID string) (*models.Contact, error)
	Delete(ctx context.Context, id, ownerID string) error
	UpcomingBirthdays(ctx context.Context, ownerID string, days int) ([]*models.Contact, error)
	GetAdmin(ctx context.Context, id string) (*models.Contact, error)
	ListAdmin(ctx context.Context, skip, limit int) ([]*models.Contact, error)
	UpcomingBirthdaysAdmin(ctx context.Context, days int) ([]*models.Contact, error)
}

// Server wires the services into a chi router.
type Server struct {
	users          UserService
	contacts       ContactService
	logger         logging.Logger
	allowedOrigins []string
}

func NewServer(users UserService, contacts ContactService, logger logging.Logger, allowedOrigins []string) *Server {
	return &Server{
		users:          users,
		contacts:       contacts,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the full route tree with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(limitByIP(100, time.Minute))

	r.Get("/ping", s.handlePing)

	r.Route("/auth", func(r chi.Router) {
		// tighter limit on the endpoints that mint tokens or send mail
		r.Group(func(r chi.Router) {
			r.Use(limitByIP(10, time.Minute))
			r.Post("/register", MakeHandler(s.logger, s.handleRegister))
			r.Post("/resend-verification", MakeHandler(s.logger, s.handleResendVerification))
			r.Post("/token", MakeHandler(s.logger, s.handleLogin))
			r.Post("/refresh", MakeHandler(s.logger, s.handleRefresh))
			r.Post("/request-password-reset", MakeHandler(s.logger, s.handleRequestPasswordReset))
			r.Post("/reset-password", MakeHandler(s.logger, s.handleResetPassword))
		})
		r.Get("/verify-email", MakeHandler(s.logger, s.handleVerifyEmail))

		r.Group(func(r chi.Router) {
			r.Use(s.Authenticator)
			r.Get("/me", MakeHandler(s.logger, s.handleMe))
			r.Post("/avatar", MakeHandler(s.logger, s.handleUploadAvatar))
		})
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(s.Authenticator)

		r.Post("/", MakeHandler(s.logger, s.handleCreateContact))
		r.Get("/", MakeHandler(s.logger, s.handleListContacts))
		r.Get("/birthdays/", MakeHandler(s.logger, s.handleUpcomingBirthdays))

		r.Route("/all", func(r chi.Router) {
			r.Use(s.RequireAdmin)
			r.Get("/", MakeHandler(s.logger, s.handleListContactsAdmin))
			r.Get("/birthdays/", MakeHandler(s.logger, s.handleUpcomingBirthdaysAdmin))
			r.Get("/{contactID}", MakeHandler(s.logger, s.handleGetContactAdmin))
		})

		r.Get("/{contactID}", MakeHandler(s.logger, s.handleGetContact))
		r.Put("/{contactID}", MakeHandler(s.logger, s.handleUpdateContact))
		r.Delete("/{contactID}", MakeHandler(s.logger, s.handleDeleteContact))
	})

	return r
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// limitByIP rate-limits by client IP, answering over-limit requests with the
// same JSON error shape as the rest of the API.
func limitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			RespondWithJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too Many Requests"})
		}),
	)
}
