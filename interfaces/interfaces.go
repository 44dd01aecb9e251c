// Package interfaces defines core abstractions for the guidelines API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// DataQualityReport provides a summary of data quality issues
type DataQualityReport struct {
	DuplicateDiseaseNames []string // Disease names appearing more than once
	VariantsWithoutGroups int      // Variants with no patient-group fields
	VariantsWithoutICD10  int      // Variants missing an ICD-10 code
	GroupsWithoutStages   int
	StagesWithoutMethods  int // Stages with neither alternative nor joint methods
	UnnamedMethods        int
}

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the loaded knowledge base
// with atomic operations for zero-downtime updates.
type DataStore interface {
	// Data retrieval methods
	GetDiseases() []entities.Disease
	GetDiseasesMap() map[string]entities.Disease
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(diseases []entities.Disease, diseasesMap map[string]entities.Disease)
	BeginUpdate() bool
	EndUpdate()

	// Load failure tracking, cleared by the next successful update
	SetLoadError(msg string)
	GetLoadError() string
}

// KnowledgeLoader defines the contract for loading the knowledge base from
// its source document.
type KnowledgeLoader interface {
	// Load reads and decodes the whole knowledge document
	Load() ([]entities.Disease, error)

	// ModTime returns the source document's last modification time
	ModTime() (time.Time, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages the initial load, reload checks and system health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	// ServeHTTP implements the http.Handler interface
	ServeHTTP(w http.ResponseWriter, r *http.Request)

	// Specific endpoint handlers
	ServeDatabase(w http.ResponseWriter, r *http.Request)
	ServeDiseases(w http.ResponseWriter, r *http.Request)
	ServeVariants(w http.ResponseWriter, r *http.Request)
	ServePatientGroups(w http.ResponseWriter, r *http.Request)
	ServeGroupPlan(w http.ResponseWriter, r *http.Request)
	ServeGroupReport(w http.ResponseWriter, r *http.Request)
	SearchMethods(w http.ResponseWriter, r *http.Request)
	ServeOverview(w http.ResponseWriter, r *http.Request)
	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns the current status, its supporting data and the
	// HTTP status code the health endpoint should answer with
	HealthCheck() (status string, data map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload check
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
// It ensures data integrity and consistency.
type DataValidator interface {
	// ValidateDisease checks if a disease entity is valid
	ValidateDisease(d *entities.Disease) error

	// ValidateDataIntegrity performs comprehensive validation of the loaded document
	ValidateDataIntegrity(diseases []entities.Disease) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(diseases []entities.Disease) *DataQualityReport

	// ValidateInput validates user input strings
	ValidateInput(input string) error

	// ValidateGroupID validates a synthetic patient-group id
	ValidateGroupID(input string) error
}
