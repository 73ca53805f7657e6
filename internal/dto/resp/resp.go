package resp

import "multizone/internal/model"

// ZoneStatusResponse wraps the per-zone probe results. Status reports that the
// check completed, not that every zone is healthy.
type ZoneStatusResponse struct {
	Status string             `json:"status"`
	Zones  []model.ZoneStatus `json:"zones"`
}

// SeedReport accounts for a best-effort seeding pass. Per-item failures are
// data here, never control flow.
type SeedReport struct {
	Message    string   `json:"message"`
	TotalUsers int      `json:"totalUsers"`
	Created    int      `json:"created"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	ErrorCount int      `json:"errorCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
