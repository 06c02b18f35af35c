package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/user/soc-triage/pkg/adk"
	"github.com/user/soc-triage/pkg/alert"
	"github.com/user/soc-triage/pkg/mitre"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 120 * time.Second

// Analyzer runs classification, prompt building and the model call for each
// alert of a batch, one alert at a time.
type Analyzer struct {
	classifier *Classifier
	provider   adk.LLMProvider
	model      string
	timeout    time.Duration
	now        func() time.Time
	onStart    func(index, total int, alertID string)
	onResult   func(index, total int, result AnalysisResult)
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithModel selects the model passed to the provider
func WithModel(model string) Option {
	return func(a *Analyzer) {
		a.model = model
	}
}

// WithTimeout bounds each model call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// WithClock overrides the completion timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// OnStart registers a callback invoked before each alert is analyzed.
// index is 1-based.
func OnStart(fn func(index, total int, alertID string)) Option {
	return func(a *Analyzer) {
		a.onStart = fn
	}
}

// OnResult registers a callback invoked after each alert's result is recorded
func OnResult(fn func(index, total int, result AnalysisResult)) Option {
	return func(a *Analyzer) {
		a.onResult = fn
	}
}

// NewAnalyzer creates an analyzer over the catalog and model provider
func NewAnalyzer(catalog *mitre.Catalog, provider adk.LLMProvider, opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier: NewClassifier(catalog),
		provider:   provider,
		timeout:    DefaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeBatch analyzes alerts in order. A failed model call is recorded in
// that alert's result and never stops the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, alerts []alert.Alert) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(alerts))
	for i, al := range alerts {
		index := i + 1
		if a.onStart != nil {
			a.onStart(index, len(alerts), resultID(al, index))
		}

		res := a.Analyze(ctx, index, al)
		results = append(results, res)

		if a.onResult != nil {
			a.onResult(index, len(alerts), res)
		}
	}
	return results
}

// Analyze triages a single alert. index is its 1-based position in the batch,
// used to name alerts without an id.
func (a *Analyzer) Analyze(ctx context.Context, index int, al alert.Alert) AnalysisResult {
	techniques := a.classifier.Classify(al)
	ids := make([]string, 0, len(techniques))
	for _, t := range techniques {
		ids = append(ids, t.ID)
	}

	prompt := BuildPrompt(al, techniques)
	adk.Debugf("alert %s: %d techniques matched, prompt %d bytes", resultID(al, index), len(ids), len(prompt))

	res := AnalysisResult{
		AlertID:    resultID(al, index),
		AlertType:  alert.Or(al.Kind()),
		Severity:   alert.Or(al.Severity),
		Techniques: ids,
	}

	text, err := a.generate(ctx, prompt)
	if err != nil {
		adk.Warnf("model call failed for alert %s: %v", res.AlertID, err)
		res.Status = StatusFailure
		res.Error = err.Error()
		res.Response = fmt.Sprintf("Model API error: %v", err)
	} else {
		res.Status = StatusSuccess
		res.Response = text
	}
	res.AnalyzedAt = a.now().UTC()
	return res
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.provider.Generate(ctx, adk.GenerateRequest{Model: a.model, Prompt: prompt})
}

func resultID(al alert.Alert, index int) string {
	if al.ID != "" {
		return al.ID
	}
	return fmt.Sprintf("alert_%d", index)
}
