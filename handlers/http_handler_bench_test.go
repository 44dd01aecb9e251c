package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clinrec/guidelines-api/logging"
)

// ============================================================================
// BENCHMARKS
// ============================================================================

// BenchmarkDatabaseExport benchmarks the whole-document export endpoint
func BenchmarkDatabaseExport(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	mockStore := NewMockDataStoreBuilder().WithDiseases(factory.CreateDiseases(200)).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/database", nil)
		handler.ServeDatabase(rr, req)
	}
}

// BenchmarkDiseasesList benchmarks the disease name list endpoint
func BenchmarkDiseasesList(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	mockStore := NewMockDataStoreBuilder().WithDiseases(factory.CreateDiseases(200)).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/diseases", nil)
		handler.ServeDiseases(rr, req)
	}
}

// BenchmarkVariantsLookup benchmarks variant listing via the diseases map
func BenchmarkVariantsLookup(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	diseases := factory.CreateDiseases(200)
	mockStore := NewMockDataStoreBuilder().WithDiseases(diseases).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("disease", diseases[100].Name)
	req := httptest.NewRequest("GET", "/variants", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.ServeVariants(rr, req)
	}
}

// BenchmarkSearchEndpoint benchmarks keyword search over the full knowledge base
func BenchmarkSearchEndpoint(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	mockStore := NewMockDataStoreBuilder().WithDiseases(factory.CreateDiseases(200)).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("keyword", "ибупрофен")
	req := httptest.NewRequest("GET", "/search", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.SearchMethods(rr, req)
	}
}

// BenchmarkGroupPlan benchmarks treatment plan resolution
func BenchmarkGroupPlan(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	diseases := factory.CreateDiseases(200)
	mockStore := NewMockDataStoreBuilder().WithDiseases(diseases).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("disease", diseases[0].Name)
	rctx.URLParams.Add("variant", diseases[0].Variants[0].Name)
	rctx.URLParams.Add("groupID", "group1_0")
	req := httptest.NewRequest("GET", "/plan", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.ServeGroupPlan(rr, req)
	}
}

// BenchmarkGroupReport benchmarks Markdown report rendering
func BenchmarkGroupReport(b *testing.B) {
	logging.InitLogger("")
	factory := NewTestDataFactory()

	diseases := factory.CreateDiseases(1)
	mockStore := NewMockDataStoreBuilder().WithDiseases(diseases).Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("disease", diseases[0].Name)
	rctx.URLParams.Add("variant", diseases[0].Variants[0].Name)
	rctx.URLParams.Add("groupID", "group1_0")
	req := httptest.NewRequest("GET", "/report", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		handler.ServeGroupReport(rr, req)
	}
}

// BenchmarkHealthCheck benchmarks the health endpoint
func BenchmarkHealthCheck(b *testing.B) {
	logging.InitLogger("")

	mockStore := NewMockDataStoreBuilder().Build()
	mockValidator := NewMockDataValidatorBuilder().Build()
	handler := NewHTTPHandler(mockStore, mockValidator, NewMockHealthCheckerBuilder().Build())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		handler.HealthCheck(rr, req)
	}
}
