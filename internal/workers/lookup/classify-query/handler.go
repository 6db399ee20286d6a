// internal/workers/lookup/classify-query/handler.go
package classifyquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "lookup-workers/internal/common/errors"
	"lookup-workers/internal/common/validation"
	"lookup-workers/internal/lookup/pipeline"
	"lookup-workers/internal/lookup/query"
	"lookup-workers/internal/lookup/report"
	"lookup-workers/internal/models"
)

const (
	TaskType = "classify-query"
)

var (
	ErrInvalidInput = errors.New("INVALID_JOB_INPUT")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config       *Config
	schema       *validation.Schema
	messages     pipeline.Messages
	errorHandler *commonerrors.ErrorHandler
	logger       Logger
}

func NewHandler(config *Config, log Logger) (*Handler, error) {
	h := &Handler{
		config:   config,
		messages: pipeline.NewMessages(report.RendererByName(config.Renderer)),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
	h.errorHandler = commonerrors.NewErrorHandler(h.logger)

	if len(config.InputSchema) > 0 {
		schema, err := validation.CompileSchema(config.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("%s input schema: %w", TaskType, err)
		}
		h.schema = schema
	}
	return h, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	done := h.config.Observability.ObserveJob(ctx, TaskType)

	vars, err := job.GetVariablesAsMap()
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewInvalidJobInputError(err.Error()))
		done(string(commonerrors.ErrCodeInvalidJobInput))
		return
	}

	input, err := h.decodeInput(vars)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewInvalidJobInputError(err.Error()))
		done(string(commonerrors.ErrCodeInvalidJobInput))
		return
	}

	output := h.execute(input)
	h.completeJob(ctx, client, job, output)
	done("")
}

// decodeInput validates vars against the input schema and extracts Input.
func (h *Handler) decodeInput(vars map[string]interface{}) (*Input, error) {
	if h.schema != nil {
		res, err := h.schema.Validate(vars)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(res.GetErrorMessages(), "; "))
		}
	}

	text, ok := vars["text"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: text must be a string", ErrInvalidInput)
	}
	input := &Input{Text: text}
	if mode, ok := vars["mode"].(string); ok {
		input.Mode = mode
	}
	if input.Mode != "" && !models.LookupMode(input.Mode).Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, input.Mode)
	}
	return input, nil
}

func (h *Handler) execute(input *Input) *Output {
	mode := models.LookupMode(input.Mode)

	var (
		q   query.Query
		err error
	)
	if mode == "" {
		q, err = query.Classify(input.Text)
	} else {
		q, err = query.ClassifyAs(mode, input.Text)
	}

	if err != nil {
		h.logger.Info("query not recognized", map[string]interface{}{"mode": input.Mode})
		return &Output{
			QueryKind: string(models.QueryKindInvalid),
			Valid:     false,
			Message:   h.messages.InvalidQuery(mode),
		}
	}

	return &Output{
		QueryKind:       string(q.Kind()),
		NormalizedQuery: q.Normalized(),
		NeedCountry:     q.NeedCountry(),
		Valid:           true,
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, sendErr := cmd.Send(ctx); sendErr != nil {
		h.logger.Error("Failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
	}
}

func (h *Handler) Execute(input *Input) *Output {
	return h.execute(input)
}
