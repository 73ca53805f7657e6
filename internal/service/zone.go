package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"multizone/internal/config"
	"multizone/internal/metrics"
	"multizone/internal/model"
)

const defaultProbeTimeout = 5 * time.Second

// ZoneChecker probes the fixed set of downstream zones over HTTP. Results are
// produced fresh on every call; nothing is cached.
type ZoneChecker struct {
	zones    []config.ZoneConfig
	client   *http.Client
	observer metrics.Observer
}

func NewZoneChecker(zones []config.ZoneConfig, timeout time.Duration, observer metrics.Observer) *ZoneChecker {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &ZoneChecker{
		zones:    zones,
		client:   &http.Client{Timeout: timeout},
		observer: observer,
	}
}

// CheckZone issues a single GET against the zone. Transport failures classify
// as unhealthy, a 200 as healthy, and any other status code as degraded.
func (z *ZoneChecker) CheckZone(ctx context.Context, name, url string) model.ZoneStatus {
	status := model.ZoneStatus{
		Name:      name,
		URL:       url,
		LastCheck: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status.Status = model.ZoneUnhealthy
		status.Message = fmt.Sprintf("Connection failed: %v", err)
		z.observer.ZoneChecked(status.Status)
		return status
	}

	res, err := z.client.Do(req)
	if err != nil {
		status.Status = model.ZoneUnhealthy
		status.Message = fmt.Sprintf("Connection failed: %v", err)
		z.observer.ZoneChecked(status.Status)
		return status
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		status.Status = model.ZoneHealthy
		status.Message = "Zone is responding"
	} else {
		status.Status = model.ZoneDegraded
		status.Message = fmt.Sprintf("HTTP %d", res.StatusCode)
	}

	z.observer.ZoneChecked(status.Status)
	return status
}

// CheckAll probes every configured zone concurrently and reports all results
// in configuration order. One zone failing never hides the others; total
// latency is bounded by the single probe timeout, not the sum.
func (z *ZoneChecker) CheckAll(ctx context.Context) []model.ZoneStatus {
	results := make([]model.ZoneStatus, len(z.zones))

	var wg sync.WaitGroup
	for i, zone := range z.zones {
		wg.Add(1)
		go func(i int, zone config.ZoneConfig) {
			defer wg.Done()
			results[i] = z.CheckZone(ctx, zone.Name, zone.URL)
		}(i, zone)
	}
	wg.Wait()

	return results
}
