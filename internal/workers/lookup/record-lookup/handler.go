// internal/workers/lookup/record-lookup/handler.go
package recordlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "lookup-workers/internal/common/errors"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/common/validation"
	"lookup-workers/internal/lookup/pipeline"
	"lookup-workers/internal/models"
)

const (
	TaskType = "record-lookup"
)

var (
	ErrInvalidInput = errors.New("INVALID_JOB_INPUT")
)

// Executor runs one lookup turn.
type Executor interface {
	Execute(ctx context.Context, mode models.LookupMode, text string) pipeline.Outcome
}

type Handler struct {
	config       *Config
	executor     Executor
	schema       *validation.Schema
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, executor Executor, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config:   config,
		executor: executor,
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

// Handle runs the lookup for one job. Every user-facing outcome completes
// the job; only malformed variables raise a BPMN error.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	done := h.config.Observability.ObserveJob(ctx, TaskType)

	input, err := h.decodeInput([]byte(job.Variables))
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewInvalidJobInputError(err.Error()))
		done(string(commonerrors.ErrCodeInvalidJobInput))
		return
	}

	output := h.execute(ctx, input)
	h.completeJob(ctx, client, job, output)
	done(output.ErrorCode)
}

func (h *Handler) decodeInput(variables []byte) (*Input, error) {
	var vars map[string]interface{}
	if err := json.Unmarshal(variables, &vars); err != nil {
		return nil, fmt.Errorf("%w: parse variables: %v", ErrInvalidInput, err)
	}

	if h.schema != nil {
		res, err := h.schema.Validate(vars)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(res.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !models.LookupMode(input.Mode).Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, input.Mode)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	out := h.executor.Execute(ctx, models.LookupMode(input.Mode), input.Text)

	output := &Output{
		Report:    out.Text,
		Status:    out.Status,
		QueryKind: string(out.Kind),
		Truncated: out.Truncated,
		RequestID: out.RequestID,
	}
	if input.RequestID != "" {
		output.RequestID = input.RequestID
	}
	if out.Err != nil {
		output.ErrorCode = string(out.Err.Code)
	}

	h.logger.Info("lookup job finished", map[string]interface{}{
		"requestId":     output.RequestID,
		"turnRequestId": out.RequestID,
		"status":        output.Status,
		"errorCode":     output.ErrorCode,
	})
	return output
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

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.execute(ctx, input)
}
