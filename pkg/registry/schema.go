// pkg/registry/schema.go
package registry

type TemplateRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Templates   []Template `json:"templates"`
}

type Template struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"displayName"`
	Description      string   `json:"description"`
	NotificationType string   `json:"notificationType"`
	RecipientType    string   `json:"recipientType"`
	Channels         []string `json:"channels"`
	Subject          string   `json:"subject"`
	Body             string   `json:"body"`
	SMSBody          string   `json:"smsBody,omitempty"`
	Tags             []string `json:"tags"`
}
