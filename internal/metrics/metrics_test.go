package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveRedfishRequest_AppearsInHandlerOutput(t *testing.T) {
	Reset()
	ObserveRedfishRequest(OpGet, "Huawei", 200, 120*time.Millisecond)
	IncRedfishRetry(OpGet, "Huawei")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `raidctl_redfish_requests_total{code="200",op="get",vendor="huawei"} 1`) {
		t.Fatalf("requests_total not found as expected in:\n%s", body)
	}
	if !strings.Contains(body, `raidctl_redfish_retries_total{op="get",vendor="huawei"} 1`) {
		t.Fatalf("retries_total not found as expected in:\n%s", body)
	}
}

func TestObserveProvisioningPhase_AppearsInHandlerOutput(t *testing.T) {
	Reset()
	ObserveProvisioningPhase(PhaseApply, 2*time.Second)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "raidctl_planner_phase_duration_seconds") {
		t.Fatalf("phase_duration_seconds histogram missing from:\n%s", rec.Body.String())
	}
}

func TestSanitizeVendor_ReplacesDisallowedCharacters(t *testing.T) {
	if got := sanitizeVendor(""); got != "unknown" {
		t.Fatalf("sanitizeVendor(\"\") = %q, want unknown", got)
	}
	if got := sanitizeVendor("Huawei iBMC!"); got != "huawei_ibmc_" {
		t.Fatalf("sanitizeVendor(...) = %q, want huawei_ibmc_", got)
	}
}

func TestObserveRedfishRequest_NegativeCodeIsLabeledError(t *testing.T) {
	Reset()
	ObserveRedfishRequest(OpGet, "huawei", -1, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `code="error"`) {
		t.Fatalf("expected an error-coded sample in:\n%s", rec.Body.String())
	}
}
