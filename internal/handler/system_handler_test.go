package handler

import (
	"net/http"
	"testing"
)

func TestHealthCheckReportsStores(t *testing.T) {
	api, gdb := setupTestAPI(t)

	w := callJSON(api.HealthCheck, http.MethodGet, "/healthz", nil)
	expectStatus(t, w, http.StatusOK)

	var report healthReport
	decodeBody(t, w, &report)
	if report.Status != "ok" || report.Database != "up" || report.Dialect != "sqlite" || report.Storage != "local" {
		t.Fatalf("unexpected health report: %+v", report)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	w = callJSON(api.HealthCheck, http.MethodGet, "/healthz", nil)
	expectStatus(t, w, http.StatusServiceUnavailable)
	decodeBody(t, w, &report)
	if report.Status != "degraded" || report.Database != "down" || report.Error == "" {
		t.Fatalf("unexpected degraded report: %+v", report)
	}
}
