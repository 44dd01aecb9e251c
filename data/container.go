// Package data provides thread-safe data storage and management for the guidelines API.
// It includes the DataContainer struct with atomic operations for zero-downtime updates
// and thread-safe access methods for the loaded knowledge base.
package data

import (
	"sync/atomic"
	"time"

	"github.com/clinrec/guidelines-api/guidelines/entities"
	"github.com/clinrec/guidelines-api/interfaces"
	"github.com/clinrec/guidelines-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the knowledge base with atomic pointers for zero-downtime updates
type DataContainer struct {
	diseases        atomic.Value // []entities.Disease
	diseasesMap     atomic.Value // map[string]entities.Disease
	lastUpdated     atomic.Value // time.Time
	loadError       atomic.Value // string, last failed load if any
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.diseases.Store(make([]entities.Disease, 0))
	dc.diseasesMap.Store(make(map[string]entities.Disease))
	dc.lastUpdated.Store(time.Time{})
	dc.loadError.Store("")
	dc.serverStartTime.Store(time.Time{}) // Initialize with zero value
	return dc
}

// Thread-safe getters with type check

// GetDiseases returns the list of diseases in document order
func (dc *DataContainer) GetDiseases() []entities.Disease {
	if v := dc.diseases.Load(); v != nil {
		if diseases, ok := v.([]entities.Disease); ok {
			return diseases
		}
	}

	logging.Warn("Diseases list is empty or invalid")
	return []entities.Disease{}
}

// GetDiseasesMap returns the diseases map for O(1) name lookups
func (dc *DataContainer) GetDiseasesMap() map[string]entities.Disease {
	if v := dc.diseasesMap.Load(); v != nil {
		if diseasesMap, ok := v.(map[string]entities.Disease); ok {
			return diseasesMap
		}
	}

	logging.Warn("DiseasesMap is empty or invalid")
	return make(map[string]entities.Disease)
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically updates all data in the container
func (dc *DataContainer) UpdateData(diseases []entities.Disease, diseasesMap map[string]entities.Disease) {
	// Atomic swap (zero downtime replacement)
	dc.diseases.Store(diseases)
	dc.diseasesMap.Store(diseasesMap)
	dc.lastUpdated.Store(time.Now())
	dc.loadError.Store("")
}

// SetLoadError records why the most recent load attempt failed
func (dc *DataContainer) SetLoadError(msg string) {
	dc.loadError.Store(msg)
}

// GetLoadError returns the last load failure, or an empty string after a
// successful update
func (dc *DataContainer) GetLoadError() string {
	if v := dc.loadError.Load(); v != nil {
		if msg, ok := v.(string); ok {
			return msg
		}
	}

	logging.Warn("Could not get the load error value")
	return ""
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
