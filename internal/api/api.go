package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/susu3304/haileybot/internal/auth"
	"github.com/susu3304/haileybot/internal/config"
	"github.com/susu3304/haileybot/internal/db"
	"golang.org/x/oauth2"
)

const discordAPIBase = "https://discord.com/api"

// PaymentLister reads the payment journal. *db.DB implements it.
type PaymentLister interface {
	ListPayments(ctx context.Context, userID int64, limit int) ([]db.Payment, error)
}

type API struct {
	router      *mux.Router
	payments    PaymentLister
	allow       *auth.Allowlist
	config      *config.Config
	oauthConfig *oauth2.Config
	jwtSecret   []byte
	discordAPI  string
	server      *http.Server
}

// New builds the HTTP API. payments may be nil when no database is
// configured; the journal endpoint then reports 503.
func New(cfg *config.Config, allow *auth.Allowlist, payments PaymentLister) *API {
	api := &API{
		router:     mux.NewRouter(),
		payments:   payments,
		allow:      allow,
		config:     cfg,
		jwtSecret:  []byte(cfg.JWTSecret),
		discordAPI: discordAPIBase,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  discordAPIBase + "/oauth2/authorize",
				TokenURL: discordAPIBase + "/oauth2/token",
			},
		},
	}

	api.setupRoutes()
	api.server = &http.Server{
		Addr:              cfg.WebBind,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/", a.handleRoot).Methods("GET")
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")

	// Auth endpoints
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("GET")
	a.router.HandleFunc("/api/auth/callback", a.handleCallback).Methods("GET")
	a.router.HandleFunc("/api/auth/logout", a.handleLogout).Methods("POST")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/payments", a.handleListPayments).Methods("GET")
}

// Handler is the router wrapped with CORS.
func (a *API) Handler() http.Handler {
	// Wildcard origin, so credentials stay disabled
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}
	return cors.New(corsOptions).Handler(a.router)
}

// Start serves until Shutdown is called.
func (a *API) Start() error {
	log.Printf("API server listening on http://%s", a.config.WebBind)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
