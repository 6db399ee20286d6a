// Package pipeline runs one lookup turn: classify, normalize, call the
// lookup service, aggregate and format.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	commonerrors "lookup-workers/internal/common/errors"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/common/metrics"
	"lookup-workers/internal/common/observability"
	"lookup-workers/internal/lookup/aggregate"
	"lookup-workers/internal/lookup/client"
	"lookup-workers/internal/lookup/payload"
	"lookup-workers/internal/lookup/query"
	"lookup-workers/internal/lookup/report"
	"lookup-workers/internal/models"
)

// Finder performs the single outbound lookup call.
type Finder interface {
	Find(ctx context.Context, q query.Query) (payload.Response, error)
}

// Outcome describes a finished turn. Text is always safe to show.
type Outcome struct {
	RequestID   string
	Kind        models.QueryKind
	Normalized  string
	NeedCountry bool
	Status      string
	Text        string
	Truncated   bool
	Err         *commonerrors.StandardError
}

type Service struct {
	finder     Finder
	aggregator *aggregate.Aggregator
	formatter  *report.Formatter
	messages   Messages
	logger     logger.Logger
	obs        *observability.Observability
	newID      func() string
}

type Option func(*Service)

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

// WithRequestIDs overrides the per-turn id generator.
func WithRequestIDs(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

func New(finder Finder, aggregator *aggregate.Aggregator, formatter *report.Formatter, log logger.Logger, opts ...Option) *Service {
	if aggregator == nil {
		aggregator = aggregate.New(nil)
	}
	if formatter == nil {
		formatter = report.NewFormatter(report.DefaultOptions())
	}
	s := &Service{
		finder:     finder,
		aggregator: aggregator,
		formatter:  formatter,
		messages:   NewMessages(formatter.Renderer()),
		logger:     log.With(map[string]interface{}{"component": "lookup-pipeline"}),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Messages returns the fixed texts rendered with the service's markup.
func (s *Service) Messages() Messages { return s.messages }

// Renderer is the markup the returned texts use.
func (s *Service) Renderer() report.Renderer { return s.formatter.Renderer() }

// Run accepts (mode, text) and returns the text to show. The error is the
// turn's failure, if any; the text is meaningful either way.
func (s *Service) Run(ctx context.Context, mode models.LookupMode, text string) (string, error) {
	out := s.Execute(ctx, mode, text)
	if out.Err != nil {
		return out.Text, out.Err
	}
	return out.Text, nil
}

// Classify classifies text for mode without calling the lookup service. An
// empty mode accepts either shape.
func (s *Service) Classify(mode models.LookupMode, text string) (query.Query, error) {
	if mode == "" {
		return query.Classify(text)
	}
	return query.ClassifyAs(mode, text)
}

// Execute runs one turn.
func (s *Service) Execute(ctx context.Context, mode models.LookupMode, text string) Outcome {
	out := Outcome{RequestID: s.newID()}
	log := s.logger.With(map[string]interface{}{"requestId": out.RequestID, "mode": string(mode)})

	q, err := s.Classify(mode, text)
	out.Kind = q.Kind()
	if err != nil {
		log.Info("query rejected", map[string]interface{}{"error": err.Error()})
		out.Status = metrics.OutcomeInvalidQuery
		out.Text = s.messages.InvalidQuery(mode)
		out.Err = commonerrors.NewQueryClassificationError(string(mode), text, err)
		s.record(ctx, out)
		return out
	}
	out.Normalized = q.Normalized()
	out.NeedCountry = q.NeedCountry()

	log.Info("lookup started", map[string]interface{}{"kind": string(out.Kind)})

	start := time.Now()
	resp, err := s.finder.Find(ctx, q)
	elapsed := time.Since(start)
	metrics.LookupCallDuration.WithLabelValues(string(out.Kind)).Observe(elapsed.Seconds())
	s.obs.RecordLookupDuration(ctx, elapsed, string(out.Kind))

	if err != nil {
		s.fail(&out, err, log)
		s.record(ctx, out)
		return out
	}

	res := s.aggregator.Aggregate(resp)
	if !resp.Recognized {
		log.Warn("lookup payload has no results key", nil)
	}

	rep := s.formatter.Format(res)
	out.Text = rep.Text
	out.Truncated = rep.Truncated
	switch {
	case res.NothingFound:
		out.Status = metrics.OutcomeNothingFound
	case len(res.Records) == 0 && len(res.Rejected) > 0:
		out.Status = metrics.OutcomeRejected
	default:
		out.Status = metrics.OutcomeReport
	}
	if rep.Truncated {
		metrics.LookupReportsTruncated.Inc()
	}

	log.Info("lookup completed", map[string]interface{}{
		"status":    out.Status,
		"records":   len(res.Records),
		"rejected":  len(res.Rejected),
		"truncated": rep.Truncated,
		"duration":  elapsed.String(),
	})
	s.record(ctx, out)
	return out
}

func (s *Service) fail(out *Outcome, err error, log logger.Logger) {
	var transportErr *client.TransportError
	switch {
	case errors.As(err, &transportErr):
		out.Status = metrics.OutcomeHTTPError
		out.Text = s.messages.HTTPError(transportErr.StatusCode)
		out.Err = commonerrors.NewLookupTransportError(transportErr.StatusCode, err)
	case errors.Is(err, client.ErrLookupTimeout):
		out.Status = metrics.OutcomeTimeout
		out.Text = s.messages.Timeout()
		out.Err = commonerrors.NewLookupTimeoutError(err)
	case errors.Is(err, payload.ErrMalformed):
		out.Status = metrics.OutcomeError
		out.Text = s.messages.Failure()
		out.Err = commonerrors.NewUnexpectedPayloadError(err)
	default:
		out.Status = metrics.OutcomeError
		out.Text = s.messages.Failure()
		out.Err = commonerrors.NewLookupTransportError(0, err)
	}
	log.Error("lookup failed", map[string]interface{}{
		"status":    out.Status,
		"errorCode": string(out.Err.Code),
		"error":     err.Error(),
	})
}

func (s *Service) record(ctx context.Context, out Outcome) {
	metrics.LookupRequests.WithLabelValues(string(out.Kind), out.Status).Inc()
	s.obs.RecordLookup(ctx, string(out.Kind), out.Status)
}
