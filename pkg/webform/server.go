package webform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliatone/go-personform/pkg/orchestrator"
	"github.com/goliatone/go-personform/pkg/render"
)

type ctxKey int

const sessionKey ctxKey = iota

// Server is the HTTP host of the person form.
type Server struct {
	opts     Options
	orch     *orchestrator.Orchestrator
	sessions *sessionStore
	validate *validator.Validate
	logger   *zap.Logger
	router   chi.Router
}

// New builds a Server and its routes.
func New(fns ...OptionFn) (*Server, error) {
	opts := newOptions(fns...)

	s := &Server{
		opts:     opts,
		orch:     opts.Orchestrator,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   opts.Logger,
	}
	if err := ensureJSONRenderer(s.orch.Registry()); err != nil {
		return nil, err
	}
	s.sessions = newSessionStore(s.orch.NewForm, opts.SessionTTL, opts.Now, opts.Logger)

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureJSONRenderer registers the JSON renderer the API responds with when
// the orchestrator's registry lacks one.
func ensureJSONRenderer(registry *render.Registry) error {
	if registry == nil {
		return errors.New("webform: orchestrator has no renderer registry")
	}
	if _, err := registry.Get(render.JSONRendererName); err == nil {
		return nil
	}
	if err := registry.Register(render.JSONRenderer{}); err != nil {
		return fmt.Errorf("webform: register json renderer: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	if _, err := s.opts.Lookup.RegisterRoutes(r, ""); err != nil {
		return err
	}

	if s.opts.Assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.opts.Assets))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.With(s.requireFormToken).Post("/", s.handlePageSubmit)
		r.With(s.requireFormToken).Post("/reset", s.handlePageReset)

		r.Route("/api/form", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Group(func(r chi.Router) {
				r.Use(s.requireHeaderToken)
				r.Put("/fields/{field}", s.handleSetField)
				r.Put("/tooltips/{field}", s.handleTooltip)
				r.Post("/submit", s.handleSubmit)
				r.Post("/reset", s.handleReset)
			})
		})
	})

	s.router = r
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withSession attaches the caller's session, creating one (and its cookie)
// on first contact.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(s.opts.CookieName); err == nil {
			id = cookie.Value
		}

		session, ok := s.sessions.get(id)
		if !ok {
			created, err := s.sessions.create(r.Context())
			if err != nil {
				s.logger.Error("create session", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "session unavailable")
				return
			}
			session = created
			http.SetCookie(w, &http.Cookie{
				Name:     s.opts.CookieName,
				Value:    session.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey).(*Session)
	return session
}

func (s *Server) requireFormToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r.Context())
		if session == nil || r.PostFormValue(csrfFieldName) != session.CSRF {
			writeError(w, http.StatusForbidden, "invalid csrf token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireHeaderToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r.Context())
		if session == nil || r.Header.Get(CSRFHeader) != session.CSRF {
			writeError(w, http.StatusForbidden, "invalid csrf token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
