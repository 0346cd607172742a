// Package guide turns completed SLODLC Discovery worksheets into SLO
// Implementation Guides by prompting a model and assembling the response
// into a publishable Markdown document.
package guide

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slodlc/slo-advisor/internal/api"
	"github.com/slodlc/slo-advisor/internal/sanitize"
)

// Completion is one model response.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Completer is the single call the generator needs from an API client.
type Completer interface {
	Complete(ctx context.Context, model, system, prompt string) (Completion, error)
}

// Config controls model selection and retry behavior.
type Config struct {
	// PrimaryModel is tried first. Empty defaults to ModelSonnet.
	PrimaryModel string
	// FallbackModel is tried with a fresh retry budget when the primary
	// exhausts its retries on transient failures. Empty disables fallback.
	FallbackModel string
	// MaxRetries is the number of retries after the initial attempt.
	// Zero defaults to 3; negative disables retries.
	MaxRetries int
	// InitialBackoff is the delay before the first retry; it doubles on
	// each subsequent attempt. Zero defaults to 1s.
	InitialBackoff time.Duration
	// TokenBudgets overrides DefaultTokenBudgets per model.
	TokenBudgets map[string]int
}

// Request describes one guide to generate.
type Request struct {
	// Worksheet is the raw Discovery worksheet content.
	Worksheet string
	// Platform is the observability platform the guide targets.
	Platform Platform
	// ServiceName appears in the document header and output filename.
	ServiceName string
}

// Result is the outcome of one Generate call. When Err is set, ErrorDoc
// and Filename describe the error document to write in place of a guide.
type Result struct {
	// RunID identifies this generation run in events and logs.
	RunID string
	// Guide is the complete formatted document. Empty on failure.
	Guide string
	// ErrorDoc is the formatted error document. Empty on success.
	ErrorDoc string
	// Filename is the conventional output filename for Guide or ErrorDoc.
	Filename string
	// Model is the model that produced the guide.
	Model string
	// Chunks is how many pieces the worksheet was processed in.
	Chunks int
	// MissingSections lists required sections absent from the guide.
	MissingSections []string
	// InputTokens, OutputTokens, and Cost total the successful calls.
	InputTokens  int64
	OutputTokens int64
	Cost         float64
	// Duration is the wall time of the run.
	Duration time.Duration
	// Err is the generation failure, equal to Generate's returned error.
	Err error
}

// Generator runs the guide generation pipeline: sanitize, budget check and
// chunking, prompt construction, model calls with retry and fallback, and
// document assembly.
type Generator struct {
	completer Completer
	cfg       Config
	emitter   *EventEmitter
	logger    *DebugLogger

	now   func() time.Time
	newID func() string
	sleep func(time.Duration)
}

// Option configures a Generator.
type Option func(*Generator)

// WithEvents attaches an emitter for progress events.
func WithEvents(e *EventEmitter) Option {
	return func(g *Generator) { g.emitter = e }
}

// WithLogger attaches a debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(g *Generator) {
		g.logger = l
		setPackageLogger(l)
	}
}

// WithClock overrides the time source used for document timestamps,
// durations, and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDSource overrides run ID generation.
func WithIDSource(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

// WithSleep overrides the backoff sleep between retries.
func WithSleep(sleep func(time.Duration)) Option {
	return func(g *Generator) { g.sleep = sleep }
}

// NewGenerator creates a generator for the given completer.
func NewGenerator(completer Completer, cfg Config, opts ...Option) *Generator {
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = ModelSonnet
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = time.Second
	}

	g := &Generator{
		completer: completer,
		cfg:       cfg,
		logger:    NopLogger(),
		now:       time.Now,
		newID:     uuid.NewString,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a guide for the request. On failure the returned
// Result carries an error document and its filename alongside the error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := g.now()
	res := &Result{RunID: g.newID()}

	g.emit(Event{
		Type:    EventStarted,
		RunID:   res.RunID,
		Service: req.ServiceName,
		Message: fmt.Sprintf("Processing Discovery worksheet for service: %s", req.ServiceName),
	})
	g.logger.Log("run %s: generating %s guide for service %s", res.RunID, req.Platform, req.ServiceName)

	scrubbed := sanitize.Scrub(req.Worksheet)
	if scrubbed == "" {
		return g.fail(res, req, start, fmt.Errorf("worksheet is empty after sanitization"))
	}

	chunks := []string{scrubbed}
	if exceeds, tokens, limit := CheckBudget(scrubbed, g.cfg.PrimaryModel, g.cfg.TokenBudgets); exceeds {
		chunks = ChunkSections(scrubbed, limit)
		g.emit(Event{
			Type:    EventChunked,
			RunID:   res.RunID,
			Service: req.ServiceName,
			Chunks:  len(chunks),
			Message: fmt.Sprintf("Worksheet is ~%d tokens, over the %d budget; split into %d chunks", tokens, limit, len(chunks)),
		})
		g.logger.Log("run %s: %d tokens over budget %d, split into %d chunks", res.RunID, tokens, limit, len(chunks))
	}
	res.Chunks = len(chunks)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		var prompt string
		if len(chunks) == 1 {
			prompt = BuildPrompt(chunk, req.Platform)
		} else {
			prompt = BuildChunkPrompt(chunk, req.Platform, i+1, len(chunks))
		}

		comp, model, err := g.completeWithRetry(ctx, res.RunID, req.ServiceName, prompt)
		if err != nil {
			return g.fail(res, req, start, err)
		}

		res.Model = model
		res.InputTokens += comp.InputTokens
		res.OutputTokens += comp.OutputTokens
		res.Cost += EstimateCost(model, comp.InputTokens, comp.OutputTokens)
		parts = append(parts, strings.TrimSpace(comp.Text))

		g.emit(Event{
			Type:         EventChunkCompleted,
			RunID:        res.RunID,
			Service:      req.ServiceName,
			Model:        model,
			Chunk:        i + 1,
			Chunks:       len(chunks),
			InputTokens:  comp.InputTokens,
			OutputTokens: comp.OutputTokens,
			Cost:         EstimateCost(model, comp.InputTokens, comp.OutputTokens),
			Message:      fmt.Sprintf("Received %d characters from %s", len(comp.Text), model),
		})
	}

	merged := strings.Join(parts, "\n\n")
	res.Guide = FormatDocument(merged, req.ServiceName, string(req.Platform), g.now())
	res.Filename = OutputFilename(req.ServiceName, false)
	res.MissingSections = MissingSections(res.Guide)
	res.Duration = g.now().Sub(start)

	if len(res.MissingSections) > 0 {
		g.emit(Event{
			Type:    EventSectionsMissing,
			RunID:   res.RunID,
			Service: req.ServiceName,
			Message: "Guide is missing sections: " + strings.Join(res.MissingSections, ", "),
		})
		g.logger.Log("run %s: guide missing sections: %s", res.RunID, strings.Join(res.MissingSections, ", "))
	}

	g.emit(Event{
		Type:         EventCompleted,
		RunID:        res.RunID,
		Service:      req.ServiceName,
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		Cost:         res.Cost,
		Message:      fmt.Sprintf("Guide generated (%d characters)", len(res.Guide)),
	})
	g.logger.Log("run %s: completed in %s, %d in / %d out tokens", res.RunID, res.Duration, res.InputTokens, res.OutputTokens)
	return res, nil
}

// completeWithRetry walks the model ladder: the primary model with
// exponential backoff on transient failures, then the fallback model with
// a fresh retry budget. Auth failures and permanent errors abort
// immediately.
func (g *Generator) completeWithRetry(ctx context.Context, runID, service, prompt string) (Completion, string, error) {
	models := []string{g.cfg.PrimaryModel}
	if g.cfg.FallbackModel != "" && g.cfg.FallbackModel != g.cfg.PrimaryModel {
		models = append(models, g.cfg.FallbackModel)
	}

	var lastErr error
	for mi, model := range models {
		for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
			if err := ctx.Err(); err != nil {
				return Completion{}, model, err
			}
			if attempt > 0 {
				backoff := g.cfg.InitialBackoff << (attempt - 1)
				g.emit(Event{
					Type:    EventRetry,
					RunID:   runID,
					Service: service,
					Model:   model,
					Attempt: attempt + 1,
					Err:     lastErr,
					Message: fmt.Sprintf("Attempt %d/%d for %s after %s backoff", attempt+1, g.cfg.MaxRetries+1, model, backoff),
				})
				g.logger.Log("run %s: retrying %s, attempt %d/%d, backoff %s", runID, model, attempt+1, g.cfg.MaxRetries+1, backoff)
				g.sleep(backoff)
			}

			g.emit(Event{
				Type:    EventModelCall,
				RunID:   runID,
				Service: service,
				Model:   model,
				Attempt: attempt + 1,
				Message: "Calling " + model,
			})

			comp, err := g.completer.Complete(ctx, model, SystemPrompt, prompt)
			if err == nil {
				return comp, model, nil
			}
			lastErr = err

			if api.IsAuth(err) {
				return Completion{}, model, fmt.Errorf("invalid Anthropic API key: %w", err)
			}
			if !api.IsTransient(err) {
				return Completion{}, model, fmt.Errorf("%s call failed: %w", model, err)
			}
			g.logger.Log("run %s: transient failure from %s: %v", runID, model, err)
		}

		if mi < len(models)-1 {
			g.emit(Event{
				Type:    EventFallback,
				RunID:   runID,
				Service: service,
				Model:   models[mi+1],
				Err:     lastErr,
				Message: fmt.Sprintf("%s exhausted retries, falling back to %s", model, models[mi+1]),
			})
			g.logger.Log("run %s: %s exhausted retries, falling back to %s", runID, model, models[mi+1])
		}
	}

	return Completion{}, "", fmt.Errorf("all models failed after retries: %w", lastErr)
}

func (g *Generator) fail(res *Result, req Request, start time.Time, err error) (*Result, error) {
	res.Err = err
	res.ErrorDoc = FormatErrorDocument(
		"SLO Implementation Guide generation failed: "+err.Error(),
		req.ServiceName,
		err.Error(),
		g.now(),
	)
	res.Filename = OutputFilename(req.ServiceName, true)
	res.Duration = g.now().Sub(start)

	g.emit(Event{
		Type:    EventFailed,
		RunID:   res.RunID,
		Service: req.ServiceName,
		Err:     err,
		Message: err.Error(),
	})
	g.logger.Log("run %s: failed: %v", res.RunID, err)
	return res, err
}

func (g *Generator) emit(event Event) {
	if g.emitter == nil {
		return
	}
	event.Timestamp = g.now()
	g.emitter.Emit(event)
}
