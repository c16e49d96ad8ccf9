// internal/workers/documents/track-original-documents/models.go
package trackoriginaldocuments

import "crbi-workers/internal/models"

// Action selects what the job does: open a new shipment or advance an
// existing one.
const (
	ActionCreate = "create"
	ActionUpdate = "update_status"
)

type Input struct {
	Action         string   `json:"action"`
	ShipmentID     string   `json:"shipmentId,omitempty"`
	ClientID       string   `json:"clientId,omitempty"`
	ApplicationID  string   `json:"applicationId,omitempty"`
	NewStatus      string   `json:"newStatus,omitempty"`
	Courier        string   `json:"courier,omitempty"`
	TrackingNumber string   `json:"trackingNumber,omitempty"`
	DocumentTypes  []string `json:"documentTypes,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

type Output struct {
	Shipment       *models.DocumentShipment `json:"shipment"`
	PreviousStatus string                   `json:"previousStatus,omitempty"`
}
