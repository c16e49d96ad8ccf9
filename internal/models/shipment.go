// internal/models/shipment.go
package models

// ShipmentStatus tracks an original-document package on its way between
// the client, the firm, and the program's government processing unit.
type ShipmentStatus string

const (
	ShipmentRequested   ShipmentStatus = "requested"
	ShipmentShipped     ShipmentStatus = "shipped"
	ShipmentInTransit   ShipmentStatus = "in_transit"
	ShipmentReceived    ShipmentStatus = "received"
	ShipmentUnderReview ShipmentStatus = "under_review"
	ShipmentVerified    ShipmentStatus = "verified"
	ShipmentReturned    ShipmentStatus = "returned"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentRequested, ShipmentShipped, ShipmentInTransit,
		ShipmentReceived, ShipmentUnderReview, ShipmentVerified, ShipmentReturned:
		return true
	}
	return false
}

// shipmentTransitions holds the allowed forward moves per status.
var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentRequested:   {ShipmentShipped},
	ShipmentShipped:     {ShipmentInTransit, ShipmentReceived},
	ShipmentInTransit:   {ShipmentReceived, ShipmentReturned},
	ShipmentReceived:    {ShipmentUnderReview, ShipmentReturned},
	ShipmentUnderReview: {ShipmentVerified, ShipmentReturned},
	ShipmentVerified:    {},
	ShipmentReturned:    {ShipmentShipped},
}

// CanTransitionTo reports whether moving from s to next is a legal step.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, allowed := range shipmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DocumentShipment is one tracked package of original documents.
type DocumentShipment struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"clientId"`
	ApplicationID  string         `json:"applicationId,omitempty"`
	Status         ShipmentStatus `json:"status"`
	Courier        string         `json:"courier,omitempty"`
	TrackingNumber string         `json:"trackingNumber,omitempty"`
	DocumentTypes  []string       `json:"documentTypes"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
}
