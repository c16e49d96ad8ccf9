// internal/workers/intake/validate-intake-data/handler.go
package validateintakedata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	crbierrors "crbi-workers/internal/common/errors"
	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/common/metrics"
	"crbi-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "validate-intake-data"
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, crbierrors.NewIntakeValidationFailedError(err.Error()))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.IntakeData == nil {
		return nil, fmt.Errorf("intakeData is required")
	}

	result, err := validation.ValidateAgainstSchema(input.IntakeData, intakeSchema)
	if err != nil {
		return nil, fmt.Errorf("validate intake: %w", err)
	}

	validationErrors := result.Errors
	validated := normalizeIntake(input.IntakeData)

	if email, ok := validated["email"].(string); ok {
		if !validation.ValidateEmail(email) {
			validationErrors = append(validationErrors, validation.ValidationError{
				Field:   "email",
				Message: "invalid email format",
				Code:    "INVALID_FORMAT",
			})
		}
	}
	if phone, ok := validated["phone"].(string); ok && phone != "" {
		if !validation.ValidatePhone(phone) {
			validationErrors = append(validationErrors, validation.ValidationError{
				Field:   "phone",
				Message: "invalid phone format",
				Code:    "INVALID_FORMAT",
			})
		}
	}

	if len(validationErrors) > 0 {
		h.logger.Warn("intake validation failed", map[string]interface{}{
			"clientId":   input.ClientID,
			"errorCount": len(validationErrors),
		})
		messages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			messages[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
		}
		return nil, fmt.Errorf("intake validation failed: %s", strings.Join(messages, "; "))
	}

	// Profile fields changed; the next qualification read must hit postgres.
	if input.ClientID != "" && h.redis != nil {
		if err := h.redis.Del(ctx, "client:profile:"+input.ClientID).Err(); err != nil {
			h.logger.Warn("profile cache invalidation failed", map[string]interface{}{
				"clientId": input.ClientID,
				"error":    err,
			})
		}
	}

	h.logger.Info("intake validated", map[string]interface{}{
		"clientId": input.ClientID,
		"fields":   len(validated),
	})

	return &Output{
		IsValid:          true,
		ValidatedData:    validated,
		ValidationErrors: []validation.ValidationError{},
	}, nil
}

// normalizeIntake trims string fields and collapses internal whitespace in
// names so downstream storage sees canonical values.
func normalizeIntake(data map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(data))
	for key, value := range data {
		if str, ok := value.(string); ok {
			str = strings.TrimSpace(str)
			if key == "firstName" || key == "lastName" {
				str = strings.Join(strings.Fields(str), " ")
			}
			if key == "email" {
				str = strings.ToLower(str)
			}
			normalized[key] = str
			continue
		}
		normalized[key] = value
	}
	return normalized
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
