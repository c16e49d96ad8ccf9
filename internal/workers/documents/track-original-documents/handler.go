// internal/workers/documents/track-original-documents/handler.go
package trackoriginaldocuments

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
	"crbi-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "track-original-documents"
)

var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrInvalidTransition = errors.New("invalid shipment status transition")
	ErrInvalidInput      = errors.New("invalid shipment input")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
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
		h.failJob(client, job, h.convertToStandardError(err, &input))
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	switch input.Action {
	case ActionCreate:
		return h.createShipment(ctx, input)
	case ActionUpdate:
		return h.updateStatus(ctx, input)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, input.Action)
	}
}

func (h *Handler) createShipment(ctx context.Context, input *Input) (*Output, error) {
	if input.ClientID == "" {
		return nil, fmt.Errorf("%w: clientId is required to create a shipment", ErrInvalidInput)
	}
	if len(input.DocumentTypes) == 0 {
		return nil, fmt.Errorf("%w: documentTypes is required to create a shipment", ErrInvalidInput)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	shipment := &models.DocumentShipment{
		ID:             uuid.New().String(),
		ClientID:       input.ClientID,
		ApplicationID:  input.ApplicationID,
		Status:         models.ShipmentRequested,
		Courier:        input.Courier,
		TrackingNumber: input.TrackingNumber,
		DocumentTypes:  input.DocumentTypes,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	docTypes, err := json.Marshal(shipment.DocumentTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal document types: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO document_shipments
			(id, client_id, application_id, status, courier, tracking_number,
			 document_types, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		shipment.ID, shipment.ClientID, nullable(shipment.ApplicationID),
		string(shipment.Status), nullable(shipment.Courier),
		nullable(shipment.TrackingNumber), docTypes, nullable(shipment.Notes),
		shipment.CreatedAt, shipment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert shipment: %w", err)
	}

	h.logger.Info("shipment created", map[string]interface{}{
		"shipmentId": shipment.ID,
		"clientId":   shipment.ClientID,
	})

	return &Output{Shipment: shipment}, nil
}

func (h *Handler) updateStatus(ctx context.Context, input *Input) (*Output, error) {
	if input.ShipmentID == "" {
		return nil, fmt.Errorf("%w: shipmentId is required to update status", ErrInvalidInput)
	}
	next := models.ShipmentStatus(input.NewStatus)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, input.NewStatus)
	}

	shipment, err := h.getShipment(ctx, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	if !shipment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shipment.Status, next)
	}

	previous := shipment.Status
	now := time.Now().UTC().Format(time.RFC3339)

	// The status guard makes the check-then-update race-safe: a concurrent
	// writer that moved the shipment past our snapshot leaves zero rows.
	res, err := h.db.ExecContext(ctx, `
		UPDATE document_shipments
		SET status = $1, tracking_number = COALESCE(NULLIF($2, ''), tracking_number),
		    notes = COALESCE(NULLIF($3, ''), notes), updated_at = $4
		WHERE id = $5 AND status = $6`,
		string(next), input.TrackingNumber, input.Notes, now, input.ShipmentID, string(previous))
	if err != nil {
		return nil, fmt.Errorf("update shipment %s: %w", input.ShipmentID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update shipment %s: %w", input.ShipmentID, err)
	}
	if affected == 0 {
		current, readErr := h.getShipment(ctx, input.ShipmentID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	shipment.Status = next
	shipment.UpdatedAt = now
	if input.TrackingNumber != "" {
		shipment.TrackingNumber = input.TrackingNumber
	}
	if input.Notes != "" {
		shipment.Notes = input.Notes
	}

	h.logger.Info("shipment status updated", map[string]interface{}{
		"shipmentId": shipment.ID,
		"from":       previous,
		"to":         next,
	})

	return &Output{Shipment: shipment, PreviousStatus: string(previous)}, nil
}

func (h *Handler) getShipment(ctx context.Context, shipmentID string) (*models.DocumentShipment, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, client_id, application_id, status, courier, tracking_number,
		       document_types, notes, created_at, updated_at
		FROM document_shipments WHERE id = $1`, shipmentID)

	var (
		shipment      models.DocumentShipment
		applicationID sql.NullString
		courier       sql.NullString
		tracking      sql.NullString
		docTypes      []byte
		notes         sql.NullString
	)
	err := row.Scan(&shipment.ID, &shipment.ClientID, &applicationID,
		&shipment.Status, &courier, &tracking, &docTypes, &notes,
		&shipment.CreatedAt, &shipment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrShipmentNotFound, shipmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("query shipment %s: %w", shipmentID, err)
	}

	shipment.ApplicationID = applicationID.String
	shipment.Courier = courier.String
	shipment.TrackingNumber = tracking.String
	shipment.Notes = notes.String
	if err := json.Unmarshal(docTypes, &shipment.DocumentTypes); err != nil {
		shipment.DocumentTypes = []string{}
	}

	return &shipment, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
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

// convertToStandardError maps shipment failures to the shared taxonomy.
func (h *Handler) convertToStandardError(err error, input *Input) *crbierrors.StandardError {
	switch {
	case errors.Is(err, ErrShipmentNotFound):
		return crbierrors.NewShipmentNotFoundError(input.ShipmentID)
	case errors.Is(err, ErrInvalidTransition):
		stdErr := crbierrors.NewInvalidShipmentTransitionError("", input.NewStatus)
		// The wrapped error names the actual source state.
		stdErr.Details = err.Error()
		return stdErr
	case errors.Is(err, ErrInvalidInput):
		return crbierrors.NewInvalidJobInputError(err.Error())
	default:
		return crbierrors.NewShipmentUpdateFailedError(err)
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
