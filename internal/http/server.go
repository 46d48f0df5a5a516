package http

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kidzcarehub/internal/core"
	"kidzcarehub/internal/session"
	"kidzcarehub/internal/speech"
	"kidzcarehub/internal/translate"
	"kidzcarehub/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

// Answerer runs the question pipeline.  *core.Assistant implements it.
type Answerer interface {
	Answer(ctx context.Context, patientInfo, question string, targetLang pkg.LanguageCode) core.Result
}

// Deps are the collaborators the handlers need.  Languages may be nil, in
// which case only English is offered.
type Deps struct {
	Assistant Answerer
	Speech    speech.Synthesizer
	Languages translate.LanguageLister
	Sessions  session.Store
	Log       *zap.Logger
}

// Options tune the router.  A zero MaxRequestsPerSecond disables rate
// limiting and a zero RequestTimeout disables the per-request deadline.
type Options struct {
	MaxRequestsPerSecond int
	RequestTimeout       time.Duration
	AllowedOrigins       []string
}

// Server bundles together the dependencies required by HTTP handlers.
type Server struct {
	Deps
	opts      Options
	templates *template.Template
	validate  *validator.Validate
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(deps Deps, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		Deps:      deps,
		opts:      opts,
		templates: tmpl,
		validate:  newValidator(),
	}, nil
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.opts.MaxRequestsPerSecond > 0 {
			r.Use(httprate.LimitByIP(s.opts.MaxRequestsPerSecond, time.Second))
		}
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleIndex)
		r.Post("/ask", s.handleAsk)
		r.Route("/settings", func(r chi.Router) {
			r.Post("/theme", s.handleTheme)
			r.Post("/voice", s.handleVoice)
			r.Post("/language", s.handleLanguage)
		})
		r.Route("/api", func(r chi.Router) {
			r.Get("/facilities", s.handleFacilities)
			r.Get("/languages", s.handleLanguages)
			r.Post("/answer", s.handleAnswerAPI)
			r.Post("/speech", s.handleSpeechAPI)
		})
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
