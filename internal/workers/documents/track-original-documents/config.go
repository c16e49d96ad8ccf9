// internal/workers/documents/track-original-documents/config.go
package trackoriginaldocuments

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
