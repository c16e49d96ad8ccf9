// internal/workers/communication/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	TemplateRegistry string
	AWSRegion        string
	FromEmail        string
	EmailEnabled     bool
	SMSEnabled       bool
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TemplateRegistry: "configs/notification-templates.json",
		AWSRegion:        "us-east-1",
		EmailEnabled:     true,
		SMSEnabled:       false,
		Timeout:          15 * time.Second,
	}
}
