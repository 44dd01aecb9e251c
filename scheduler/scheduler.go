// Package scheduler provides scheduled knowledge base loading and health monitoring
// for the guidelines API. It handles the initial load, modification-time based hot
// reloads, and coordinates refresh operations with the data container using
// dependency injection.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/clinrec/guidelines-api/guidelines"
	"github.com/clinrec/guidelines-api/interfaces"
	"github.com/clinrec/guidelines-api/logging"
	"github.com/clinrec/guidelines-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles knowledge base loading and health monitoring using dependency injection
type Scheduler struct {
	dataStore          interfaces.DataStore
	loader             interfaces.KnowledgeLoader
	validator          interfaces.DataValidator
	scheduler          *gocron.Scheduler
	reloadCheckMinutes int

	mtimeMu       sync.Mutex
	loadedModTime time.Time
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// A reloadCheckMinutes of zero disables the periodic file checks.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.KnowledgeLoader, validator interfaces.DataValidator, reloadCheckMinutes int) *Scheduler {
	return &Scheduler{
		dataStore:          dataStore,
		loader:             loader,
		validator:          validator,
		scheduler:          gocron.NewScheduler(time.Local),
		reloadCheckMinutes: reloadCheckMinutes,
	}
}

// Start performs the initial load and schedules the reload checks.
// An initial load failure is not fatal: the service starts with an empty
// knowledge base, reports itself unhealthy and heals on a later check.
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial knowledge base load", "error", err)
	}

	if s.reloadCheckMinutes > 0 {
		_, err := s.scheduler.Every(s.reloadCheckMinutes).Minutes().Do(func() {
			s.checkForChanges()
		})
		if err != nil {
			logging.Error("Failed to schedule reload checks", "error", err)
			return fmt.Errorf("failed to schedule reload checks: %w", err)
		}

		s.scheduler.StartAsync()
	}

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkForChanges reloads the knowledge base when the source file has been
// modified since the last successful load
func (s *Scheduler) checkForChanges() {
	modTime, err := s.loader.ModTime()
	if err != nil {
		logging.Warn("Could not stat knowledge file", "error", err)
		return
	}

	s.mtimeMu.Lock()
	changed := modTime.After(s.loadedModTime)
	s.mtimeMu.Unlock()
	if !changed {
		return
	}

	logging.Info("Knowledge file changed, reloading", "mod_time", modTime.Format(time.RFC3339))
	if err := s.updateData(); err != nil {
		logging.Error("Failed to reload knowledge base", "error", err)
	}
}

// updateData performs a complete knowledge base load using injected dependencies
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting knowledge base load at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	// Stat before reading so a write racing the read is caught by the next check
	modTime, statErr := s.loader.ModTime()

	newDiseases, err := s.loader.Load()
	if err != nil {
		s.dataStore.SetLoadError(err.Error())
		metrics.KnowledgeBaseReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	if err := s.validator.ValidateDataIntegrity(newDiseases); err != nil {
		s.dataStore.SetLoadError(err.Error())
		metrics.KnowledgeBaseReloads.WithLabelValues("failure").Inc()
		return fmt.Errorf("knowledge base failed validation: %w", err)
	}

	report := s.validator.ReportDataQuality(newDiseases)
	s.logQualityReport(report)

	newDiseasesMap := guidelines.BuildDiseaseMap(newDiseases)

	// Atomic update using injected data store
	s.dataStore.UpdateData(newDiseases, newDiseasesMap)

	if statErr == nil {
		s.mtimeMu.Lock()
		s.loadedModTime = modTime
		s.mtimeMu.Unlock()
	}

	methodCount := guidelines.CountMethods(newDiseases)
	metrics.KnowledgeBaseDiseases.Set(float64(len(newDiseases)))
	metrics.KnowledgeBaseMethods.Set(float64(methodCount))
	metrics.KnowledgeBaseReloads.WithLabelValues("success").Inc()

	elapsed := time.Since(start)
	logging.Info("Knowledge base load completed",
		"duration", elapsed.String(),
		"disease_count", len(newDiseases),
		"method_count", methodCount)

	return nil
}

// logQualityReport logs every soft data quality issue found during a load
func (s *Scheduler) logQualityReport(report *interfaces.DataQualityReport) {
	if len(report.DuplicateDiseaseNames) > 0 {
		logging.Warn("Duplicate disease names detected",
			"total", len(report.DuplicateDiseaseNames),
			"names", report.DuplicateDiseaseNames,
		)
	}

	if report.VariantsWithoutGroups > 0 {
		logging.Warn("Variants without patient groups", "count", report.VariantsWithoutGroups)
	}

	if report.VariantsWithoutICD10 > 0 {
		logging.Warn("Variants without an ICD-10 code", "count", report.VariantsWithoutICD10)
	}

	if report.GroupsWithoutStages > 0 {
		logging.Warn("Patient groups without stages", "count", report.GroupsWithoutStages)
	}

	if report.StagesWithoutMethods > 0 {
		logging.Warn("Stages without any methods", "count", report.StagesWithoutMethods)
	}

	if report.UnnamedMethods > 0 {
		logging.Warn("Methods without names", "count", report.UnnamedMethods)
	}
}

// startHealthMonitoring warns periodically while the knowledge base stays empty
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if len(s.dataStore.GetDiseases()) == 0 {
				logging.Warn("Knowledge base is still empty", "load_error", s.dataStore.GetLoadError())
			}
		}
	}()
}
