// Package health provides health checking functionality for the guidelines API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/clinrec/guidelines-api/guidelines"
	"github.com/clinrec/guidelines-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore          interfaces.DataStore
	reloadCheckMinutes int
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore, reloadCheckMinutes int) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:          dataStore,
		reloadCheckMinutes: reloadCheckMinutes,
	}
}

// HealthCheck returns the HTTP-specific health data for the /health endpoint.
// The service is unhealthy while the knowledge base is empty, and degraded
// while it keeps serving the previous snapshot after a failed reload.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	diseases := h.dataStore.GetDiseases()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	loadError := h.dataStore.GetLoadError()

	dataAge := time.Since(lastUpdate)

	switch {
	case len(diseases) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case loadError != "":
		// The previous snapshot still serves, so the endpoint stays 200
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"diseases":       len(diseases),
		"methods":        guidelines.CountMethods(diseases),
		"is_updating":    isUpdating,
	}
	if loadError != "" {
		data["load_error"] = loadError
	}
	if next := h.CalculateNextUpdate(); !next.IsZero() {
		data["next_reload_check"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload check. Checks run on
// a fixed interval, so the next one is at most one interval away.
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	if h.reloadCheckMinutes <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(h.reloadCheckMinutes) * time.Minute)
}
