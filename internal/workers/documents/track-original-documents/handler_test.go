// internal/workers/documents/track-original-documents/handler_test.go
package trackoriginaldocuments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	crbierrors "crbi-workers/internal/common/errors"
	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func shipmentColumns() []string {
	return []string{
		"id", "client_id", "application_id", "status", "courier",
		"tracking_number", "document_types", "notes", "created_at", "updated_at",
	}
}

func shipmentRow(status string) *sqlmock.Rows {
	docTypes, _ := json.Marshal([]string{"passport", "birth_certificate"})
	return sqlmock.NewRows(shipmentColumns()).AddRow(
		"ship-1", "client-1", "app-1", status, "DHL",
		"TRK123", docTypes, "originals", "2026-08-01T00:00:00Z", "2026-08-01T00:00:00Z",
	)
}

func TestHandler_Execute_CreateShipment(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO document_shipments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:        ActionCreate,
		ClientID:      "client-1",
		DocumentTypes: []string{"passport"},
		Courier:       "FedEx",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Shipment)
	assert.NotEmpty(t, output.Shipment.ID)
	assert.Equal(t, models.ShipmentRequested, output.Shipment.Status)
	assert.Equal(t, "client-1", output.Shipment.ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CreateShipment_MissingFields(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Action:   ActionCreate,
		ClientID: "client-1",
	})
	assert.Error(t, err)

	_, err = handler.Execute(context.Background(), &Input{
		Action:        ActionCreate,
		DocumentTypes: []string{"passport"},
	})
	assert.Error(t, err)
}

func TestHandler_Execute_UpdateStatus_ValidTransition(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-1").
		WillReturnRows(shipmentRow("requested"))
	mock.ExpectExec("UPDATE document_shipments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		ShipmentID: "ship-1",
		NewStatus:  "shipped",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ShipmentShipped, output.Shipment.Status)
	assert.Equal(t, "requested", output.PreviousStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UpdateStatus_GuardsOnCurrentStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-1").
		WillReturnRows(shipmentRow("requested"))
	mock.ExpectExec(`(?s)UPDATE document_shipments.*WHERE id = \$5 AND status = \$6`).
		WithArgs("shipped", "", "", sqlmock.AnyArg(), "ship-1", "requested").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		ShipmentID: "ship-1",
		NewStatus:  "shipped",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ShipmentShipped, output.Shipment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UpdateStatus_ConcurrentMoveRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	// Snapshot reads "requested", but another writer ships the document
	// before our guarded update lands, so zero rows match.
	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-1").
		WillReturnRows(shipmentRow("requested"))
	mock.ExpectExec(`(?s)UPDATE document_shipments.*AND status = \$6`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-1").
		WillReturnRows(shipmentRow("shipped"))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		ShipmentID: "ship-1",
		NewStatus:  "shipped",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UpdateStatus_InvalidTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
	}{
		{"requested to verified", "requested", "verified"},
		{"verified is terminal", "verified", "returned"},
		{"received back to shipped", "received", "shipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			defer db.Close()

			mock.ExpectQuery("SELECT id, client_id").
				WithArgs("ship-1").
				WillReturnRows(shipmentRow(tt.current))

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{
				Action:     ActionUpdate,
				ShipmentID: "ship-1",
				NewStatus:  tt.next,
			})

			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestHandler_Execute_UpdateStatus_UnknownStatus(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		ShipmentID: "ship-1",
		NewStatus:  "teleported",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestHandler_Execute_UpdateStatus_ShipmentNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-missing").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:     ActionUpdate,
		ShipmentID: "ship-missing",
		NewStatus:  "shipped",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrShipmentNotFound)
}

func TestHandler_Execute_ReturnedCanReship(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, client_id").
		WithArgs("ship-1").
		WillReturnRows(shipmentRow("returned"))
	mock.ExpectExec("UPDATE document_shipments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Action:         ActionUpdate,
		ShipmentID:     "ship-1",
		NewStatus:      "shipped",
		TrackingNumber: "TRK456",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ShipmentShipped, output.Shipment.Status)
	assert.Equal(t, "TRK456", output.Shipment.TrackingNumber)
}

func TestHandler_Execute_UnknownAction(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Action: "archive"})

	assert.Nil(t, output)
	assert.Error(t, err)
}

func TestHandler_ConvertToStandardError(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
	input := &Input{Action: ActionUpdate, ShipmentID: "ship-1", NewStatus: "shipped"}

	notFound := handler.convertToStandardError(
		fmt.Errorf("%w: ship-1", ErrShipmentNotFound), input)
	assert.Equal(t, crbierrors.ErrCodeShipmentNotFound, notFound.Code)
	assert.False(t, notFound.Retryable)

	badMove := handler.convertToStandardError(
		fmt.Errorf("%w: verified -> shipped", ErrInvalidTransition), input)
	assert.Equal(t, crbierrors.ErrCodeInvalidShipmentTransition, badMove.Code)
	assert.Contains(t, badMove.Details, "verified -> shipped")

	badInput := handler.convertToStandardError(
		fmt.Errorf("%w: shipmentId is required to update status", ErrInvalidInput), input)
	assert.Equal(t, crbierrors.ErrCodeInvalidJobInput, badInput.Code)
	assert.False(t, badInput.Retryable)

	dbDown := handler.convertToStandardError(errors.New("connection refused"), input)
	assert.Equal(t, crbierrors.ErrCodeShipmentUpdateFailed, dbDown.Code)
	assert.True(t, dbDown.Retryable)
	assert.Equal(t, 3, crbierrors.GetRetryCount(dbDown.Code))
}
