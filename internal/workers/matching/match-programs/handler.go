// internal/workers/matching/match-programs/handler.go
package matchprograms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	crbierrors "crbi-workers/internal/common/errors"
	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/common/metrics"
	"crbi-workers/internal/common/observability"
	"crbi-workers/internal/matching"
	"crbi-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	TaskType = "match-programs"
)

type Handler struct {
	config  *Config
	service *matching.Service
	logger  logger.Logger
	obs     *observability.Observability
	tracing *observability.Tracing
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	clients := store.NewClientStore(db, rdb, config.CacheTTL, log)
	programs := store.NewProgramStore(db, log)
	service := matching.NewService(clients, programs, programs, log)

	return &Handler{
		config:  config,
		service: service,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// WithTelemetry attaches OpenTelemetry spans and meters to job handling.
// Without it the handler still reports the Prometheus worker metrics.
func (h *Handler) WithTelemetry(obs *observability.Observability, tracing *observability.Tracing) *Handler {
	h.obs = obs
	h.tracing = tracing
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	start := time.Now()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, crbierrors.NewInvalidJobInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	if input.ClientID == "" {
		h.failJob(client, job, crbierrors.NewInvalidJobInputError("clientId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if h.tracing != nil {
		var span trace.Span
		ctx, span = h.tracing.StartJobSpan(ctx, TaskType, job.Key)
		defer span.End()
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.recordJob(ctx, start, "failed")
		h.failJob(client, job, h.convertToStandardError(err, input.ClientID))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.recordJob(ctx, start, "completed")
	h.completeJob(client, job, output)
}

func (h *Handler) recordJob(ctx context.Context, start time.Time, status string) {
	if h.obs == nil {
		return
	}
	h.obs.RecordJobProcessed(ctx, status)
	h.obs.RecordJobDuration(ctx, time.Since(start), status)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	qualification, err := h.service.MatchProgramsForClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	metrics.QualificationsComputed.WithLabelValues("worker").Inc()
	scoredByType := make(map[string]int)
	for _, match := range qualification.ProgramMatches {
		metrics.ProgramMatchScore.
			WithLabelValues(string(match.Program.ProgramType)).
			Observe(float64(match.MatchScore))
		scoredByType[string(match.Program.ProgramType)]++
	}
	if h.obs != nil {
		for programType, count := range scoredByType {
			h.obs.RecordProgramsScored(ctx, count, programType)
		}
	}

	h.logger.Info("qualification computed", map[string]interface{}{
		"clientId":     input.ClientID,
		"overallScore": qualification.OverallScore,
		"matchCount":   len(qualification.ProgramMatches),
	})

	return &Output{
		Qualification: qualification,
		OverallScore:  qualification.OverallScore,
		MatchCount:    len(qualification.ProgramMatches),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

// convertToStandardError maps matching failures to the shared taxonomy.
func (h *Handler) convertToStandardError(err error, clientID string) *crbierrors.StandardError {
	if errors.Is(err, matching.ErrClientNotFound) {
		return crbierrors.NewClientNotFoundError(clientID)
	}
	return crbierrors.NewQualificationFailedError(err)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *crbierrors.StandardError) {
	bpmnErr := crbierrors.ConvertToBPMNError(stdErr)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"errorCode": bpmnErr.Code,
		"category":  crbierrors.GetErrorCategory(stdErr.Code),
		"retryable": bpmnErr.Retryable,
		"retries":   bpmnErr.Retries,
		"message":   bpmnErr.Message,
	})

	if bpmnErr.Retryable && bpmnErr.Retries > 0 {
		_, err := client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(int32(bpmnErr.Retries)).
			ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message)).
			Send(context.Background())
		if err != nil {
			h.logger.Error("failed to fail job", map[string]interface{}{
				"error": err,
			})
		}
		return
	}

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
