// Package server assembles the HTTP router and runs the http.Server.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/auth"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/config"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/handlers"
	appmw "github.com/PhamHoangLong1911/KAppTech-Backend/internal/middleware"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/models"
	"github.com/PhamHoangLong1911/KAppTech-Backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Store is everything the handlers need from the database.
type Store interface {
	handlers.PageStore
	handlers.PostStore
	handlers.CaseStudyStore
	handlers.TestimonialStore
	handlers.TeamStore
	handlers.ContactStore
	handlers.MediaStore
	handlers.UserStore
	handlers.Pinger
}

// LimiterFunc returns the limiter for one named scope.
type LimiterFunc func(scope string, limit int, window time.Duration) appmw.Limiter

type Options struct {
	Config   config.Config
	Store    Store
	Files    storage.Storage
	Tokens   *auth.TokenManager
	Limiter  LimiterFunc
	Registry *prometheus.Registry
	Log      *logrus.Logger
	// UploadDir is served at /uploads when files live on local disk.
	UploadDir string
}

var (
	admin  = models.RoleAdmin
	editor = models.RoleEditor
	author = models.RoleAuthor
)

// NewRouter wires middleware, handlers and routes.
func NewRouter(o Options) http.Handler {
	cfg := o.Config
	metrics := appmw.NewMetrics(o.Registry)
	authn := appmw.NewAuthenticator(o.Tokens, o.Store, o.Log)
	only := func(roles ...models.Role) chi.Middlewares {
		return chi.Middlewares{authn.Required, appmw.RequireRole(roles...)}
	}
	limitBody := chimw.RequestSize(cfg.BodyLimit)

	authH := handlers.NewAuthHandler(o.Store, o.Tokens, o.Log)
	usersH := handlers.NewUsersHandler(o.Store, o.Log)
	pagesH := handlers.NewPagesHandler(o.Store, o.Log)
	postsH := handlers.NewPostsHandler(o.Store, o.Log)
	caseStudiesH := handlers.NewCaseStudiesHandler(o.Store, o.Log)
	testimonialsH := handlers.NewTestimonialsHandler(o.Store, o.Log)
	teamH := handlers.NewTeamHandler(o.Store, o.Log)
	contactH := handlers.NewContactHandler(o.Store, o.Log)
	mediaH := handlers.NewMediaHandler(o.Store, o.Files, cfg.Media.MaxUploadSize, o.Log)
	healthH := handlers.NewHealthHandler(o.Store, o.Log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.RequestLogger(o.Log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(appmw.SecureHeaders(cfg.IsProduction()))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Handle("/metrics", promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{}))
	if o.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(o.UploadDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(appmw.RateLimit(o.Limiter("api", cfg.RateLimitRequests, cfg.RateLimitWindow), "api",
			"Too many requests from this IP, please try again later.", o.Log))

		r.Get("/health", healthH.Health)

		// Uploads carry their own size ceiling.
		r.Route("/media", func(r chi.Router) {
			r.Use(only(admin, editor, author)...)
			r.Post("/upload", mediaH.Upload)
			r.Group(func(r chi.Router) {
				r.Use(limitBody)
				r.Get("/", mediaH.List)
				r.Get("/{id}", mediaH.Get)
				r.With(appmw.RequireRole(admin, editor)).Put("/{id}", mediaH.Update)
				r.With(appmw.RequireRole(admin, editor)).Delete("/{id}", mediaH.Delete)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(limitBody)

			r.Route("/auth", func(r chi.Router) {
				r.With(appmw.RateLimit(o.Limiter("login", cfg.LoginRateLimit, time.Minute), "login",
					"Too many login attempts, please try again later.", o.Log)).Post("/login", authH.Login)
				r.With(only(admin)...).Post("/register", authH.Register)
				r.Group(func(r chi.Router) {
					r.Use(authn.Required)
					r.Get("/me", authH.Me)
					r.Put("/me", authH.UpdateProfile)
					r.Put("/password", authH.ChangePassword)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(only(admin)...)
				r.Get("/", usersH.List)
				r.Get("/{id}", usersH.Get)
				r.Put("/{id}", usersH.Update)
				r.Delete("/{id}", usersH.Delete)
			})

			r.Route("/pages", func(r chi.Router) {
				r.With(authn.Optional).Get("/", pagesH.List)
				r.With(authn.Optional).Get("/home", pagesH.Home)
				r.With(authn.Optional).Get("/{idOrSlug}", pagesH.Get)
				r.With(only(admin, editor)...).Post("/", pagesH.Create)
				r.With(only(admin, editor)...).Put("/{id}", pagesH.Update)
				r.With(only(admin)...).Delete("/{id}", pagesH.Delete)
			})

			r.Route("/posts", func(r chi.Router) {
				r.With(authn.Optional).Get("/", postsH.List)
				r.With(authn.Optional).Get("/{idOrSlug}", postsH.Get)
				r.Post("/{id}/like", postsH.Like)
				r.With(only(admin, editor, author)...).Post("/", postsH.Create)
				r.With(only(admin, editor, author)...).Put("/{id}", postsH.Update)
				r.With(only(admin, editor)...).Delete("/{id}", postsH.Delete)
			})

			r.Route("/case-studies", func(r chi.Router) {
				r.With(authn.Optional).Get("/", caseStudiesH.List)
				r.With(authn.Optional).Get("/{idOrSlug}", caseStudiesH.Get)
				r.With(only(admin, editor)...).Post("/", caseStudiesH.Create)
				r.With(only(admin, editor)...).Put("/{id}", caseStudiesH.Update)
				r.With(only(admin)...).Delete("/{id}", caseStudiesH.Delete)
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.With(authn.Optional).Get("/", testimonialsH.List)
				r.With(authn.Optional).Get("/{id}", testimonialsH.Get)
				r.With(only(admin, editor)...).Post("/", testimonialsH.Create)
				r.With(only(admin, editor)...).Put("/{id}", testimonialsH.Update)
				r.With(only(admin)...).Delete("/{id}", testimonialsH.Delete)
			})

			r.Route("/team", func(r chi.Router) {
				r.With(authn.Optional).Get("/", teamH.List)
				r.With(authn.Optional).Get("/{idOrSlug}", teamH.Get)
				r.With(only(admin)...).Post("/", teamH.Create)
				r.With(only(admin, editor)...).Put("/{id}", teamH.Update)
				r.With(only(admin)...).Delete("/{id}", teamH.Delete)
			})

			r.Route("/contact", func(r chi.Router) {
				r.With(appmw.RateLimit(o.Limiter("contact", cfg.ContactRateLimit, time.Hour), "contact",
					"Too many contact form submissions, please try again later.", o.Log)).Post("/", contactH.Submit)
				r.Group(func(r chi.Router) {
					r.Use(only(admin)...)
					r.Get("/", contactH.List)
					r.Get("/{id}", contactH.Get)
					r.Put("/{id}", contactH.Update)
					r.Delete("/{id}", contactH.Delete)
				})
			})
		})
	})

	return r
}

// Run serves handler on addr until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
