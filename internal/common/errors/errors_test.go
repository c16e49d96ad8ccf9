package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_RetryableCarriesRetryBudget(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("client_profile", errors.New("connection reset"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, string(ErrCodeQueryExecutionFailed), bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Contains(t, bpmnErr.Details, "connection reset")
}

func TestConvertToBPMNError_NonRetryableGetsZeroRetries(t *testing.T) {
	tests := []struct {
		name   string
		stdErr *StandardError
	}{
		{"client not found", NewClientNotFoundError("client-1")},
		{"qualification failed", NewQualificationFailedError(errors.New("boom"))},
		{"invalid job input", NewInvalidJobInputError("clientId is required")},
		{"intake validation", NewIntakeValidationFailedError("email: invalid")},
		{"invalid transition", NewInvalidShipmentTransitionError("verified", "shipped")},
		{"invalid query type", NewInvalidQueryTypeError("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.stdErr)
			assert.False(t, bpmnErr.Retryable)
			assert.Equal(t, 0, bpmnErr.Retries)
		})
	}
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeNotificationSendFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeShipmentUpdateFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeQueryTimeout))
	assert.Equal(t, 2, GetRetryCount(ErrCodeSearchTimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeClientNotFound))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidJobInput))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "not_found", GetErrorCategory(ErrCodeClientNotFound))
	assert.Equal(t, "not_found", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "business_rule", GetErrorCategory(ErrCodeInvalidJobInput))
	assert.Equal(t, "business_rule", GetErrorCategory(ErrCodeIntakeValidationFailed))
	assert.Equal(t, "infrastructure", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "external_service", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "internal", GetErrorCategory(ErrCodeInternal))
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewSearchTimeoutError("program_search"))

	vars := bpmnErr.ToErrorVariables()

	require.Equal(t, string(ErrCodeSearchTimeout), vars["errorCode"])
	assert.Equal(t, bpmnErr.Message, vars["errorMessage"])
	assert.Equal(t, true, vars["retryable"])
}

func TestStandardError_Error(t *testing.T) {
	stdErr := NewShipmentNotFoundError("ship-9")
	assert.Contains(t, stdErr.Error(), string(ErrCodeShipmentNotFound))
	assert.Contains(t, stdErr.Details, "ship-9")
}
