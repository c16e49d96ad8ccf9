// internal/workers/communication/send-notification/handler.go
package sendnotification

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
	"crbi-workers/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	templates *registry.TemplateRegistry
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	templates, err := registry.LoadRegistry(config.TemplateRegistry)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		templates: templates,
	}, nil
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
		h.failJob(client, job, h.convertToStandardError(err))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RecipientID == "" || input.RecipientType == "" {
		return nil, fmt.Errorf("recipientId and recipientType are required")
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	email, phone, err := h.getRecipientContact(ctx, input.RecipientID, input.RecipientType)
	if err != nil {
		// Unknown recipient is not a workflow failure; record and move on.
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
			"type":        input.RecipientType,
		})
		out := &Output{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}
		h.recordNotification(ctx, input, out)
		return out, nil
	}

	template, err := h.templates.FindTemplate(input.NotificationType, input.RecipientType)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"RecipientID":      input.RecipientID,
		"NotificationType": input.NotificationType,
		"Priority":         input.Priority,
	}
	for k, v := range input.Metadata {
		data[k] = v
	}

	subject, body, err := template.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render template %s: %w", template.ID, err)
	}

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			out := &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
			h.recordNotification(ctx, input, out)
			return nil, fmt.Errorf("%w: email to %s: %v", ErrNotificationSendFailed, input.RecipientID, err)
		}
		emailSent = true
	}

	if h.config.SMSEnabled && phone != "" && (input.Priority == "high" || input.Priority == "urgent") {
		smsBody, err := template.RenderSMS(data)
		if err != nil {
			return nil, fmt.Errorf("render sms template %s: %w", template.ID, err)
		}
		if err := h.sendSMS(ctx, phone, smsBody); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
		} else {
			smsSent = true
		}
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	out := &Output{
		NotificationID: notificationID,
		Status:         status,
		EmailSent:      emailSent,
		SMSSent:        smsSent,
		SentAt:         sentAt,
	}
	h.recordNotification(ctx, input, out)

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"status":         status,
		"emailSent":      emailSent,
		"smsSent":        smsSent,
	})

	return out, nil
}

func (h *Handler) getRecipientContact(ctx context.Context, recipientID, recipientType string) (string, string, error) {
	var query string
	switch recipientType {
	case RecipientTypeClient:
		query = `SELECT email, COALESCE(phone, '') FROM clients WHERE id = $1`
	case RecipientTypeAdvisor:
		query = `SELECT email, COALESCE(phone, '') FROM advisors WHERE id = $1`
	default:
		return "", "", fmt.Errorf("unknown recipient type %q", recipientType)
	}

	var email, phone string
	err := h.db.QueryRowContext(ctx, query, recipientID).Scan(&email, &phone)
	if err != nil {
		return "", "", fmt.Errorf("lookup %s %s: %w", recipientType, recipientID, err)
	}
	return email, phone, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, phone, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	return err
}

// recordNotification is an audit write; a failure here never fails the job.
func (h *Handler) recordNotification(ctx context.Context, input *Input, out *Output) {
	payload, _ := json.Marshal(input.Metadata)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO notifications
			(id, recipient_id, recipient_type, type, channel, status, payload, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		out.NotificationID, input.RecipientID, input.RecipientType,
		input.NotificationType, notificationChannel(out), out.Status,
		payload, out.SentAt, out.SentAt)
	if err != nil {
		h.logger.Warn("notification audit write failed", map[string]interface{}{
			"notificationId": out.NotificationID,
			"error":          err,
		})
	}
}

func notificationChannel(out *Output) string {
	switch {
	case out.EmailSent && out.SMSSent:
		return "email,sms"
	case out.SMSSent:
		return "sms"
	default:
		return "email"
	}
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

// convertToStandardError maps delivery failures to the shared taxonomy.
// Everything short of an actual send attempt, missing fields or a template
// that will not render, is treated as bad input and never retried.
func (h *Handler) convertToStandardError(err error) *crbierrors.StandardError {
	if errors.Is(err, ErrNotificationSendFailed) {
		return crbierrors.NewNotificationSendFailedError("email", err)
	}
	return crbierrors.NewInvalidJobInputError(err.Error())
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
