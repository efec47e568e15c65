// Package http exposes the account backend over HTTP using fiber. It owns
// routing, the auth middleware, cookie transport for tokens, and the mapping
// from service errors to status codes. All business logic lives in the
// services package; handlers here are thin glue.
package http

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

// AccountProvider is the slice of the account service used by handlers.
type AccountProvider interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.AccountPublic, error)
	Login(ctx context.Context, identifier string, password string) (*models.AccountPublic, *services.TokenPair, error)
	ChangePassword(ctx context.Context, accountID string, oldPassword string, newPassword string) error
	GetPublic(ctx context.Context, accountID string) (*models.AccountPublic, error)
	UpdateDetails(ctx context.Context, accountID string, fullName string, email string) (*models.AccountPublic, error)
	UpdateAvatar(ctx context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error)
	UpdateCoverImage(ctx context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error)
}

// SessionProvider is the slice of the session service used by handlers and
// the auth middleware.
type SessionProvider interface {
	Rotate(ctx context.Context, presented string) (*services.TokenPair, error)
	Revoke(ctx context.Context, accountID string) error
	VerifyAccessToken(token string) (string, error)
}

// ViewProvider serves the relational read views.
type ViewProvider interface {
	ChannelProfile(ctx context.Context, username string, requesterID string) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, accountID string) ([]*models.WatchHistoryItem, error)
}

// Server wires the fiber app to the service layer.
type Server struct {
	app            *fiber.App
	address        string
	logger         logging.Logger
	accounts       AccountProvider
	sessions       SessionProvider
	views          ViewProvider
	media          services.Uploader
	requestTimeout time.Duration
	accessTokenTTL time.Duration
	refreshTTL     time.Duration
}

// NewServer builds the fiber app and registers all routes.
func NewServer(cfg *config.Config, l logging.Logger, accounts AccountProvider, sessions SessionProvider, views ViewProvider, media services.Uploader) *Server {
	s := &Server{
		app:            fiber.New(),
		address:        cfg.EndpointAddrHTTP,
		logger:         l.With("module", "http_server"),
		accounts:       accounts,
		sessions:       sessions,
		views:          views,
		media:          media,
		requestTimeout: cfg.RequestTimeout,
		accessTokenTTL: cfg.AccessTokenValidityDuration,
		refreshTTL:     cfg.RefreshTokenValidityDuration,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api/v1/users")
	api.Use(s.withTimeout)

	api.Post("/register", s.register)
	api.Post("/login", s.login)
	api.Post("/refresh-token", s.refreshToken)

	// secured routes
	api.Post("/logout", s.logout, s.requireAuth)
	api.Post("/change-password", s.changePassword, s.requireAuth)
	api.Get("/current-user", s.currentUser, s.requireAuth)
	api.Patch("/update-account", s.updateAccount, s.requireAuth)
	api.Patch("/avatar", s.updateAvatar, s.requireAuth)
	api.Patch("/cover-image", s.updateCoverImage, s.requireAuth)

	api.Get("/c/:username", s.channelProfile, s.optionalAuth)
	api.Get("/history", s.watchHistory, s.requireAuth)
}

// Run starts the listener and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.ShutdownWithContext(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address, fiber.ListenConfig{DisableStartupMessage: true})
}
