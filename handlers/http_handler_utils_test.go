package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinrec/guidelines-api/data"
	"github.com/clinrec/guidelines-api/guidelines"
	"github.com/clinrec/guidelines-api/guidelines/entities"
	"github.com/clinrec/guidelines-api/interfaces"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory creates consistent test data across all tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateMethod creates a single test method with full grading data
func (f *TestDataFactory) CreateMethod(name string) entities.Method {
	return entities.Method{
		Name:            name,
		Indications:     []string{"Стабильный перелом без смещения"},
		Medicines:       []string{"Ибупрофен"},
		Materials:       []string{"Гипсовый бинт"},
		Recommendations: "Контрольный снимок через 7 дней",
		Pages:           []string{"12"},
		Persuasiveness:  "A",
		Evidence:        "1b",
	}
}

// CreateGroup creates a patient group with one conservative treatment stage
func (f *TestDataFactory) CreateGroup(indications string, methods ...entities.Method) entities.Group {
	return entities.Group{
		PatientsIndications: indications,
		Stages: []entities.Stage{
			{Name: "Консервативное лечение", Alternatives: methods},
		},
	}
}

// CreateVariant creates a variant whose groups all live under a single
// "group1" field, so the synthetic ids are "group1_0", "group1_1", ...
func (f *TestDataFactory) CreateVariant(name string, icd10 string, groups ...entities.Group) entities.Variant {
	variant := entities.Variant{
		Name:      name,
		ICD10Code: icd10,
	}
	if len(groups) > 0 {
		variant.GroupSets = []entities.GroupSet{{Key: "group1", Groups: groups}}
	}
	return variant
}

// CreateDisease creates a disease holding the given variants
func (f *TestDataFactory) CreateDisease(name string, variants ...entities.Variant) entities.Disease {
	return entities.Disease{
		Name:     name,
		Variants: variants,
	}
}

// CreateDiseases creates multiple test diseases, each with one variant and
// one treated patient group
func (f *TestDataFactory) CreateDiseases(count int) []entities.Disease {
	diseases := make([]entities.Disease, count)
	for i := 0; i < count; i++ {
		method := f.CreateMethod(fmt.Sprintf("Метод лечения %d", i+1))
		group := f.CreateGroup("Взрослые пациенты", method)
		variant := f.CreateVariant(fmt.Sprintf("Тип %d", i+1), "S52.5", group)
		diseases[i] = f.CreateDisease(fmt.Sprintf("Тестовый перелом %d", i+1), variant)
	}
	return diseases
}

// CreateDiseasesMap creates a diseases map for O(1) name lookups
func (f *TestDataFactory) CreateDiseasesMap(diseases []entities.Disease) map[string]entities.Disease {
	diseasesMap := make(map[string]entities.Disease, len(diseases))
	for _, disease := range diseases {
		diseasesMap[disease.Name] = disease
	}
	return diseasesMap
}

// CreateDataContainer creates a fully populated data container
func (f *TestDataFactory) CreateDataContainer(diseaseCount int) *data.DataContainer {
	diseases := f.CreateDiseases(diseaseCount)
	container := data.NewDataContainer()
	container.UpdateData(diseases, guidelines.BuildDiseaseMap(diseases))
	return container
}

// ============================================================================
// MOCK BUILDERS
// ============================================================================

// MockDataStoreBuilder provides fluent interface for building mock data stores
type MockDataStoreBuilder struct {
	mock *MockDataStore
}

func NewMockDataStoreBuilder() *MockDataStoreBuilder {
	return &MockDataStoreBuilder{
		mock: &MockDataStore{
			diseases:        []entities.Disease{},
			diseasesMap:     make(map[string]entities.Disease),
			lastUpdated:     time.Now(),
			serverStartTime: time.Now(),
			updating:        false,
		},
	}
}

func (b *MockDataStoreBuilder) WithDiseases(diseases []entities.Disease) *MockDataStoreBuilder {
	b.mock.diseases = diseases
	b.mock.diseasesMap = make(map[string]entities.Disease)
	for _, disease := range diseases {
		b.mock.diseasesMap[disease.Name] = disease
	}
	return b
}

func (b *MockDataStoreBuilder) WithUpdating(updating bool) *MockDataStoreBuilder {
	b.mock.updating = updating
	return b
}

func (b *MockDataStoreBuilder) WithLastUpdated(lastUpdated time.Time) *MockDataStoreBuilder {
	b.mock.lastUpdated = lastUpdated
	return b
}

func (b *MockDataStoreBuilder) WithLoadError(loadError string) *MockDataStoreBuilder {
	b.mock.loadError = loadError
	return b
}

func (b *MockDataStoreBuilder) WithServerStartTime(startTime time.Time) *MockDataStoreBuilder {
	b.mock.serverStartTime = startTime
	return b
}

func (b *MockDataStoreBuilder) Build() *MockDataStore {
	return b.mock
}

// MockDataValidatorBuilder provides fluent interface for building mock validators
type MockDataValidatorBuilder struct {
	mock *MockDataValidator
}

func NewMockDataValidatorBuilder() *MockDataValidatorBuilder {
	return &MockDataValidatorBuilder{
		mock: &MockDataValidator{
			validateInputError:   nil,
			validateGroupIDError: nil,
		},
	}
}

func (b *MockDataValidatorBuilder) WithInputError(err error) *MockDataValidatorBuilder {
	b.mock.validateInputError = err
	return b
}

func (b *MockDataValidatorBuilder) WithGroupIDError(err error) *MockDataValidatorBuilder {
	b.mock.validateGroupIDError = err
	return b
}

func (b *MockDataValidatorBuilder) Build() *MockDataValidator {
	return b.mock
}

// MockHealthCheckerBuilder provides fluent interface for building mock health checkers
type MockHealthCheckerBuilder struct {
	mock *MockHealthChecker
}

func NewMockHealthCheckerBuilder() *MockHealthCheckerBuilder {
	return &MockHealthCheckerBuilder{
		mock: &MockHealthChecker{
			status: "healthy",
			data: map[string]any{
				"last_update":    time.Now().Format(time.RFC3339),
				"data_age_hours": 0.5,
				"diseases":       1,
				"methods":        1,
				"is_updating":    false,
			},
			httpStatus: http.StatusOK,
		},
	}
}

func (b *MockHealthCheckerBuilder) WithStatus(status string, httpStatus int) *MockHealthCheckerBuilder {
	b.mock.status = status
	b.mock.httpStatus = httpStatus
	return b
}

func (b *MockHealthCheckerBuilder) WithData(data map[string]any) *MockHealthCheckerBuilder {
	b.mock.data = data
	return b
}

func (b *MockHealthCheckerBuilder) WithNextUpdate(nextUpdate time.Time) *MockHealthCheckerBuilder {
	b.mock.nextUpdate = nextUpdate
	return b
}

func (b *MockHealthCheckerBuilder) Build() *MockHealthChecker {
	return b.mock
}

// ============================================================================
// HTTP TEST UTILITIES
// ============================================================================

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t *testing.T
}

func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// ExecuteRequest executes an HTTP handler with given parameters
func (h *HTTPTestHelper) ExecuteRequest(handler http.HandlerFunc, method, path string, urlParams map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range urlParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// AssertJSONResponse asserts that response contains valid JSON with expected status
func (h *HTTPTestHelper) AssertJSONResponse(resp *httptest.ResponseRecorder, expectedStatus int, target any) {
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d", expectedStatus, resp.Code)
	}

	bodyStr := resp.Body.String()
	if bodyStr == "" {
		h.t.Error("Response body should not be empty")
	}

	err := json.Unmarshal([]byte(bodyStr), target)
	if err != nil {
		h.t.Errorf("Response should be valid JSON, got error: %v", err)
	}
}

// AssertErrorResponse asserts that response contains an error with expected status
func (h *HTTPTestHelper) AssertErrorResponse(resp *httptest.ResponseRecorder, expectedStatus int) {
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d", expectedStatus, resp.Code)
	}

	var errorResp map[string]any
	err := json.Unmarshal(resp.Body.Bytes(), &errorResp)
	if err != nil {
		h.t.Errorf("Error response should be valid JSON, got error: %v", err)
	}

	// Check that it has error fields
	if _, ok := errorResp["message"]; !ok {
		h.t.Error("Error response should have message field")
	}
	if _, ok := errorResp["code"]; !ok {
		h.t.Error("Error response should have code field")
	}
}

// AssertHealthResponse asserts health check response structure. The HTTP
// status is not checked here because unhealthy responses answer with 503.
func (h *HTTPTestHelper) AssertHealthResponse(resp *httptest.ResponseRecorder, expectedStatus string) {
	var response map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &response); err != nil {
		h.t.Fatalf("Health response should be valid JSON, got error: %v", err)
	}

	if response["status"] != expectedStatus {
		h.t.Errorf("Status mismatch: expected %s, got %v", expectedStatus, response["status"])
	}
	if _, ok := response["data"]; !ok {
		h.t.Error("Response should have data field")
	}
	if _, ok := response["system"]; !ok {
		h.t.Error("Response should have system field")
	}
}

// ============================================================================
// MOCK IMPLEMENTATIONS
// ============================================================================

// MockDataStore implements interfaces.DataStore for testing
type MockDataStore struct {
	diseases        []entities.Disease
	diseasesMap     map[string]entities.Disease
	lastUpdated     time.Time
	serverStartTime time.Time
	updating        bool
	loadError       string

	// Method call tracking
	getDiseasesCalled    bool
	getDiseasesMapCalled bool
	beginUpdateCalled    bool
	endUpdateCalled      bool
	updateDataCalled     bool
}

func (m *MockDataStore) GetDiseases() []entities.Disease {
	m.getDiseasesCalled = true
	return m.diseases
}

func (m *MockDataStore) GetDiseasesMap() map[string]entities.Disease {
	m.getDiseasesMapCalled = true
	return m.diseasesMap
}

func (m *MockDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *MockDataStore) IsUpdating() bool {
	return m.updating
}

func (m *MockDataStore) GetServerStartTime() time.Time {
	return m.serverStartTime
}

func (m *MockDataStore) UpdateData(diseases []entities.Disease, diseasesMap map[string]entities.Disease) {
	m.updateDataCalled = true
	m.diseases = diseases
	m.diseasesMap = diseasesMap
	m.lastUpdated = time.Now()
	m.loadError = ""
}

func (m *MockDataStore) BeginUpdate() bool {
	m.beginUpdateCalled = true
	m.updating = true
	return true
}

func (m *MockDataStore) EndUpdate() {
	m.endUpdateCalled = true
	m.updating = false
}

func (m *MockDataStore) SetLoadError(msg string) {
	m.loadError = msg
}

func (m *MockDataStore) GetLoadError() string {
	return m.loadError
}

// MockDataValidator implements interfaces.DataValidator for testing
type MockDataValidator struct {
	validateInputError   error
	validateGroupIDError error
	validateDiseaseError error

	validateInputCalled   bool
	validateGroupIDCalled bool
	lastValidatedInput    string
	lastValidatedGroupID  string
}

func (m *MockDataValidator) ValidateDisease(d *entities.Disease) error {
	return m.validateDiseaseError
}

func (m *MockDataValidator) ValidateDataIntegrity(diseases []entities.Disease) error {
	return nil
}

func (m *MockDataValidator) ReportDataQuality(diseases []entities.Disease) *interfaces.DataQualityReport {
	return &interfaces.DataQualityReport{
		DuplicateDiseaseNames: []string{},
		VariantsWithoutGroups: 0,
		VariantsWithoutICD10:  0,
		GroupsWithoutStages:   0,
		StagesWithoutMethods:  0,
		UnnamedMethods:        0,
	}
}

func (m *MockDataValidator) ValidateInput(input string) error {
	m.validateInputCalled = true
	m.lastValidatedInput = input
	return m.validateInputError
}

func (m *MockDataValidator) ValidateGroupID(input string) error {
	m.validateGroupIDCalled = true
	m.lastValidatedGroupID = input
	return m.validateGroupIDError
}

// MockHealthChecker implements interfaces.HealthChecker for testing
type MockHealthChecker struct {
	status     string
	data       map[string]any
	httpStatus int
	nextUpdate time.Time

	healthCheckCalled bool
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	m.healthCheckCalled = true
	return m.status, m.data, m.httpStatus
}

func (m *MockHealthChecker) CalculateNextUpdate() time.Time {
	return m.nextUpdate
}
