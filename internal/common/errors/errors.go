// Package errors provides standardized error handling for BPMN workflow
// integration and the qualification API.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Matching / qualification
	ErrCodeClientNotFound      ErrorCode = "CLIENT_NOT_FOUND"
	ErrCodeQualificationFailed ErrorCode = "QUALIFICATION_FAILED"

	// Intake
	ErrCodeIntakeValidationFailed ErrorCode = "INTAKE_VALIDATION_FAILED"
	ErrCodeInvalidEnumValue       ErrorCode = "INVALID_ENUM_VALUE"

	// Job plumbing
	ErrCodeInvalidJobInput ErrorCode = "INVALID_JOB_INPUT"

	// Document shipments
	ErrCodeShipmentNotFound          ErrorCode = "SHIPMENT_NOT_FOUND"
	ErrCodeInvalidShipmentTransition ErrorCode = "INVALID_SHIPMENT_TRANSITION"
	ErrCodeShipmentUpdateFailed      ErrorCode = "SHIPMENT_UPDATE_FAILED"

	// Data access
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	// Notifications
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Generic
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow
// engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail
// variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError maps a StandardError onto the workflow error shape.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
	}
}

// ==========================
// 3. Retry / Category Policy
// ==========================

// retryCounts holds per-code retry budgets for retryable failures.
var retryCounts = map[ErrorCode]int{
	ErrCodeDatabaseConnectionFailed:      3,
	ErrCodeQueryExecutionFailed:          3,
	ErrCodeQueryTimeout:                  2,
	ErrCodeElasticsearchConnectionFailed: 3,
	ErrCodeSearchQueryFailed:             3,
	ErrCodeSearchTimeout:                 2,
	ErrCodeNotificationSendFailed:        3,
	ErrCodeShipmentUpdateFailed:          3,
	ErrCodeExternalService:               3,
	ErrCodeTimeout:                       2,
}

// GetRetryCount returns how many times a job failing with this code should
// be retried. Zero means the error is thrown to the workflow instead.
func GetRetryCount(code ErrorCode) int {
	return retryCounts[code]
}

// GetErrorCategory buckets codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeClientNotFound, ErrCodeShipmentNotFound, ErrCodeNotFound, ErrCodeIndexNotFound:
		return "not_found"
	case ErrCodeIntakeValidationFailed, ErrCodeInvalidEnumValue, ErrCodeInvalidJobInput,
		ErrCodeInvalidShipmentTransition, ErrCodeInvalidQueryType, ErrCodeBusinessRule:
		return "business_rule"
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout,
		ErrCodeElasticsearchConnectionFailed, ErrCodeSearchQueryFailed, ErrCodeSearchTimeout:
		return "infrastructure"
	case ErrCodeNotificationSendFailed, ErrCodeExternalService, ErrCodeTimeout:
		return "external_service"
	case ErrCodeAuthentication:
		return "authentication"
	default:
		return "internal"
	}
}

// ==========================
// 4. Error Constructors
// ==========================

// NewClientNotFoundError creates the non-retryable "no such client" error,
// the only failure callers can distinguish from an opaque one.
func NewClientNotFoundError(clientID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientNotFound,
		Message:   "Client not found",
		Details:   fmt.Sprintf("clientId: %s", clientID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQualificationFailedError wraps any unexpected scorer failure.
func NewQualificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQualificationFailed,
		Message:   "Program matching failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobInputError marks a job whose variables do not parse or are
// missing required fields. Never retried; the payload will not get better.
func NewInvalidJobInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJobInput,
		Message:   "Job input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntakeValidationFailedError creates a non-retryable intake error.
func NewIntakeValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntakeValidationFailed,
		Message:   "Intake data failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewShipmentNotFoundError creates a non-retryable shipment lookup error.
func NewShipmentNotFoundError(shipmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeShipmentNotFound,
		Message:   "Document shipment not found",
		Details:   fmt.Sprintf("shipmentId: %s", shipmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidShipmentTransitionError rejects an illegal status move.
func NewInvalidShipmentTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidShipmentTransition,
		Message:   "Shipment status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewShipmentUpdateFailedError creates a retryable persistence error.
func NewShipmentUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeShipmentUpdateFailed,
		Message:   "Database error while updating shipment",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryTypeError creates a non-retryable invalid query type error.
func NewInvalidQueryTypeError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryType,
		Message:   "Unsupported query type",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable external dependency error.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service %s error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Timeout calling %s", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceNotFoundError creates a non-retryable lookup error.
func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBusinessRuleError creates a non-retryable rule violation.
func NewBusinessRuleError(details, rule string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBusinessRule,
		Message:   rule,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable auth error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
