package server

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const defaultIngestTimeout = 30 * time.Second

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response is always a JSON document encoded by this package
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

type config struct {
	workerAPIKey  types.WorkerAPIKey
	ingestTimeout time.Duration
}

type Option func(*config)

// WithWorkerAPIKey sets the shared secret the analysis worker must send in
// the x-api-key header. Without it every callback is rejected.
func WithWorkerAPIKey(key types.WorkerAPIKey) Option {
	return func(cfg *config) {
		cfg.workerAPIKey = key
	}
}

func WithIngestTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.ingestTimeout = d
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{
		ingestTimeout: defaultIngestTimeout,
	}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.With(requireWorkerAPIKey(cfg.workerAPIKey)).
			Post("/webhook/analysis", handleAnalysisCallback(uc, cfg.ingestTimeout))

		r.Route("/analyses/{analysisID}", func(r chi.Router) {
			r.Get("/", handleGetAnalysis(uc))
			r.Post("/fix-suggestions", handleSuggestFixes(uc))
		})
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
