package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"sentimentd/internal/classifier"
	"sentimentd/pkg/types"
)

// Config holds startup parameters for the engine.
type Config struct {
	// ModelPath points at a JSON weights file. Empty selects the embedded
	// default lexicon.
	ModelPath string
}

// Engine owns the process-wide model handle. The classifier is constructed
// exactly once at startup; a construction failure leaves the handle absent
// and every prediction request is refused until the process restarts.
// The handle is read-only after New and shared across concurrent handlers.
type Engine struct {
	model     classifier.Classifier // nil when startup failed
	lastErr   string
	startedAt time.Time
	log       zerolog.Logger

	requests    atomic.Uint64
	predictions atomic.Uint64
}

// New attempts model construction exactly once. Any failure is logged with
// its cause, recorded for /status, and never propagates. No retry, no
// reload: the absent handle persists for the process lifetime.
func New(cfg Config, log zerolog.Logger) *Engine {
	e := &Engine{startedAt: time.Now(), log: log}
	var (
		model *classifier.LexiconModel
		err   error
	)
	if cfg.ModelPath != "" {
		model, err = classifier.LoadFile(cfg.ModelPath)
	} else {
		model, err = classifier.Default()
	}
	if err != nil {
		e.lastErr = err.Error()
		log.Error().Err(err).Str("model_path", cfg.ModelPath).Msg("model load failed, serving unavailable")
		return e
	}
	e.model = model
	log.Info().Str("model", model.ModelID()).Msg("model loaded")
	return e
}

// NewWithClassifier wires a prebuilt classifier. Used by tests.
func NewWithClassifier(c classifier.Classifier, log zerolog.Logger) *Engine {
	return &Engine{model: c, startedAt: time.Now(), log: log}
}

// Ready reports whether the model handle is present.
func (e *Engine) Ready() bool { return e.model != nil }

// Predict runs one inference over the loaded model and returns its ordered
// predictions. Each call is independent and mutates nothing but counters.
func (e *Engine) Predict(ctx context.Context, text string) ([]classifier.Prediction, error) {
	if e.model == nil {
		return nil, unavailableError{}
	}
	e.requests.Add(1)
	preds, err := e.model.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, emptyResultError{}
	}
	e.predictions.Add(1)
	return preds, nil
}

// Status reports the model handle state and serving counters.
func (e *Engine) Status() types.StatusResponse {
	s := types.StatusResponse{
		Ready:            e.Ready(),
		LastError:        e.lastErr,
		UptimeSeconds:    int64(time.Since(e.startedAt).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
		RequestsTotal:    e.requests.Load(),
		PredictionsTotal: e.predictions.Load(),
	}
	if e.model != nil {
		s.Model = e.model.ModelID()
		s.Labels = e.model.Labels()
	}
	return s
}
