package model

import "time"

// Zone health classifications.
const (
	ZoneHealthy   = "healthy"
	ZoneDegraded  = "degraded"
	ZoneUnhealthy = "unhealthy"
)

// ZoneStatus is the result of one probe against a downstream zone. It is
// derived per request and never persisted.
type ZoneStatus struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	URL       string    `json:"url"`
	LastCheck time.Time `json:"lastCheck"`
	Message   string    `json:"message"`
}
