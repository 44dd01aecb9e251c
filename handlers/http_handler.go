// Package handlers provides HTTP request handlers for the guidelines API endpoints.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinrec/guidelines-api/guidelines"
	"github.com/clinrec/guidelines-api/guidelines/entities"
	"github.com/clinrec/guidelines-api/interfaces"
	"github.com/clinrec/guidelines-api/logging"
	"github.com/clinrec/guidelines-api/report"
)

// compressionThreshold is the minimum response size worth gzip compressing
const compressionThreshold = 1024

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// ServeHTTP implements the http.Handler interface
func (h *HTTPHandlerImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// This is a placeholder - the actual routing is handled by chi
	http.Error(w, "Not implemented", http.StatusNotImplemented)
}

// HealthResponseImpl defines the structure for consistent JSON ordering
type HealthResponseImpl struct {
	Status        string                 `json:"status"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	UptimeHuman   string                 `json:"uptime_human"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

// RespondWithJSON writes a JSON response, gzip-compressed when the client
// accepts it and the payload is large enough to benefit
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	acceptsGzip := strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
	if acceptsGzip && len(data) >= compressionThreshold {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)

		gz := gzip.NewWriter(w)
		if _, err := gz.Write(data); err != nil {
			logging.Error("Failed to write compressed response", "error", err)
		}
		if err := gz.Close(); err != nil {
			logging.Warn("Failed to close gzip writer", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Error("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, r, code, errorResponse)
}

// formatUptimeHuman formats duration into a human-readable string
func (h *HTTPHandlerImpl) formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// ServeDatabase returns the whole knowledge document as loaded
func (h *HTTPHandlerImpl) ServeDatabase(w http.ResponseWriter, r *http.Request) {
	document := entities.Document{Diseases: h.dataStore.GetDiseases()}
	h.RespondWithJSON(w, r, http.StatusOK, document)
}

// ServeDiseases returns the disease names in document order
func (h *HTTPHandlerImpl) ServeDiseases(w http.ResponseWriter, r *http.Request) {
	names := guidelines.DiseaseNames(h.dataStore.GetDiseases())
	h.RespondWithJSON(w, r, http.StatusOK, names)
}

// ServeVariants returns the variants of a disease.
// An unknown disease name yields an empty list, not an error.
func (h *HTTPHandlerImpl) ServeVariants(w http.ResponseWriter, r *http.Request) {
	diseaseName := chi.URLParam(r, "disease")
	if err := h.validator.ValidateInput(diseaseName); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	variants := []entities.Variant{}
	if disease, exists := h.dataStore.GetDiseasesMap()[diseaseName]; exists && disease.Variants != nil {
		variants = disease.Variants
	}

	h.RespondWithJSON(w, r, http.StatusOK, variants)
}

// ServePatientGroups returns the patient groups of a variant with their
// synthetic ids. Unknown disease or variant names yield an empty list.
func (h *HTTPHandlerImpl) ServePatientGroups(w http.ResponseWriter, r *http.Request) {
	diseaseName := chi.URLParam(r, "disease")
	variantName := chi.URLParam(r, "variant")
	if err := h.validator.ValidateInput(diseaseName); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.ValidateInput(variantName); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	groups := []entities.PatientGroup{}
	if disease, exists := h.dataStore.GetDiseasesMap()[diseaseName]; exists {
		if variant, found := guidelines.FindVariant(disease, variantName); found {
			groups = guidelines.PatientGroups(variant)
		}
	}

	h.RespondWithJSON(w, r, http.StatusOK, groups)
}

// resolveGroup walks the disease/variant/group path segments down to the
// addressed patient group. The message names the first segment that failed.
func (h *HTTPHandlerImpl) resolveGroup(r *http.Request) (entities.Variant, entities.PatientGroup, string) {
	diseaseName := chi.URLParam(r, "disease")
	variantName := chi.URLParam(r, "variant")
	groupID := chi.URLParam(r, "groupID")

	disease, exists := h.dataStore.GetDiseasesMap()[diseaseName]
	if !exists {
		return entities.Variant{}, entities.PatientGroup{}, "Disease not found"
	}

	variant, found := guidelines.FindVariant(disease, variantName)
	if !found {
		return entities.Variant{}, entities.PatientGroup{}, "Variant not found"
	}

	group, found := guidelines.FindPatientGroup(variant, groupID)
	if !found {
		return entities.Variant{}, entities.PatientGroup{}, "Patient group not found"
	}

	return variant, group, ""
}

// validateGroupPath validates all three path segments of a patient-group URL
func (h *HTTPHandlerImpl) validateGroupPath(r *http.Request) error {
	if err := h.validator.ValidateInput(chi.URLParam(r, "disease")); err != nil {
		return err
	}
	if err := h.validator.ValidateInput(chi.URLParam(r, "variant")); err != nil {
		return err
	}
	return h.validator.ValidateGroupID(chi.URLParam(r, "groupID"))
}

// ServeGroupPlan returns the treatment plan for one patient group
func (h *HTTPHandlerImpl) ServeGroupPlan(w http.ResponseWriter, r *http.Request) {
	if err := h.validateGroupPath(r); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	variant, group, notFound := h.resolveGroup(r)
	if notFound != "" {
		h.RespondWithError(w, r, http.StatusNotFound, notFound)
		return
	}

	plan := guidelines.GroupPlan(variant.Name, group.Group)
	h.RespondWithJSON(w, r, http.StatusOK, plan)
}

// ServeGroupReport renders the treatment plan as a downloadable Markdown file
func (h *HTTPHandlerImpl) ServeGroupReport(w http.ResponseWriter, r *http.Request) {
	if err := h.validateGroupPath(r); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	variant, group, notFound := h.resolveGroup(r)
	if notFound != "" {
		h.RespondWithError(w, r, http.StatusNotFound, notFound)
		return
	}

	plan := guidelines.GroupPlan(variant.Name, group.Group)

	var buf bytes.Buffer
	writer := report.NewMarkdownWriter(&buf)
	if _, err := writer.Write(plan, variant); err != nil {
		logging.Error("Failed to render treatment report", "variant", variant.Name, "error", err)
		h.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.Filename(variant.Name)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Error("Failed to write report response", "error", err)
	}
}

// SearchMethods searches treatment methods by keyword
func (h *HTTPHandlerImpl) SearchMethods(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if keyword == "" {
		h.RespondWithError(w, r, http.StatusBadRequest, "Missing search term")
		return
	}

	// Validate input using the validator
	if err := h.validator.ValidateInput(keyword); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	results := guidelines.SearchMethods(h.dataStore.GetDiseases(), keyword)

	// Always return 200 with results array (empty if no matches)
	h.RespondWithJSON(w, r, http.StatusOK, results)
}

// ServeOverview returns per-variant knowledge base statistics
func (h *HTTPHandlerImpl) ServeOverview(w http.ResponseWriter, r *http.Request) {
	overview := guidelines.Overview(h.dataStore.GetDiseases())
	h.RespondWithJSON(w, r, http.StatusOK, overview)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	// Get memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.dataStore.GetServerStartTime())

	response := HealthResponseImpl{
		Status:        status,
		UptimeSeconds: uptime.Seconds(),
		UptimeHuman:   h.formatUptimeHuman(uptime),
		Data:          data,
		System: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, r, httpStatus, response)
}
