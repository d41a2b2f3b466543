package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sentimentd/internal/classifier"
	"sentimentd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	// Ready reports whether the model handle is present.
	Ready() bool
	// Predict returns predictions ordered by descending score.
	Predict(ctx context.Context, text string) ([]classifier.Prediction, error)
	Status() types.StatusResponse
}

// predictPayload keeps the text field untyped so a wrong-typed value is a
// field validation failure, not a JSON parse failure.
type predictPayload struct {
	Text any `json:"text"`
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		// Check order is part of the contract: availability, JSON-ness,
		// field validity, length, inference. Each failure short-circuits.
		if !svc.Ready() {
			writeJSONError(w, http.StatusServiceUnavailable, msgModelUnavailable)
			return
		}
		if !isJSONContentType(r.Header.Get("Content-Type")) {
			logWarn(r, "received non-JSON request")
			writeJSONError(w, http.StatusBadRequest, msgNotJSON)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req predictPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logWarn(r, "received unparseable JSON body")
			writeJSONError(w, http.StatusBadRequest, msgNotJSON)
			return
		}
		text, ok := req.Text.(string)
		if !ok || text == "" {
			logWarn(r, "received request with missing or invalid 'text' field")
			writeJSONError(w, http.StatusBadRequest, msgBadTextField)
			return
		}
		// Length is measured in characters, boundary inclusive.
		if utf8.RuneCountInString(text) > maxTextChars {
			logWarn(r, "received request exceeding maximum text length")
			writeJSONError(w, http.StatusBadRequest, msgTextTooLong())
			return
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		preds, err := svc.Predict(ctx, text)
		if err == nil && len(preds) == 0 {
			err = errors.New("empty prediction set")
		}
		if err != nil {
			// Internal detail stays in server logs only.
			logError(r, err, "prediction failed")
			writeJSONError(w, http.StatusInternalServerError, msgInferenceFailed)
			return
		}
		top := preds[0]
		score := math.Round(top.Score*10000) / 10000
		if lvl := requestLogLevel(r); lvl >= LevelInfo {
			if zlog != nil {
				z := zlog.Info().Str("text", text).Str("sentiment", top.Label).Float64("score", score).Dur("dur", time.Since(start))
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Msg("prediction")
			} else {
				log.Printf("prediction text=%q sentiment=%s score=%.4f dur=%s", text, top.Label, score, time.Since(start))
			}
		}
		observePrediction(top.Label)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.PredictResponse{Sentiment: top.Label, Score: score}); err != nil {
			logError(r, err, "failed to encode response")
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model"))
	})

	// Prometheus metrics endpoint
	mountMetrics(r)
	// Swagger UI (build with -tags=swagger to enable)
	MountSwagger(r)

	return r
}

// isJSONContentType mirrors the usual is-JSON test: application/json or any
// +json structured suffix.
func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	mt = strings.ToLower(mt)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
