package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bluecape/droidmetrics/internal/adb"
	"github.com/bluecape/droidmetrics/internal/cache"
	"github.com/bluecape/droidmetrics/internal/metrics"
)

type stubBridge struct {
	shell    map[string]string
	shellErr error
	devices  []adb.Device
}

func (f *stubBridge) Shell(ctx context.Context, command string) (string, error) {
	if f.shellErr != nil {
		return "", f.shellErr
	}
	return f.shell[command], nil
}

func (f *stubBridge) ShellSoft(ctx context.Context, command string) (string, error) {
	return f.shell[command], nil
}

func (f *stubBridge) ShellBatch(ctx context.Context, commands []string) []string {
	results := make([]string, len(commands))
	for i, command := range commands {
		results[i] = f.shell[command]
	}
	return results
}

func (f *stubBridge) Devices(ctx context.Context) ([]adb.Device, error) {
	return f.devices, nil
}

func newTestServer(bridge *stubBridge) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := metrics.NewService(bridge, cache.New(), logger)
	return NewServer(service, logger, time.Second)
}

func doRequest(t *testing.T, server *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	server.Router().ServeHTTP(recorder, request)

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v\n%s", err, recorder.Body.String())
	}
	return recorder, body
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&stubBridge{
		devices: []adb.Device{{ID: "emulator-5554", State: "device"}},
	})

	recorder, body := doRequest(t, server, "/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if body["status"] != "healthy" || body["adb_connected"] != true {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestBatteryEndpoint(t *testing.T) {
	server := newTestServer(&stubBridge{
		shell: map[string]string{
			"dumpsys battery": "  level: 85\n  status: 2\n  voltage: 4123\n  temperature: 280\n  AC powered: true",
		},
	})

	recorder, body := doRequest(t, server, "/battery")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	if body["level"] != float64(85) {
		t.Errorf("level = %v", body["level"])
	}
	if body["temperature_c"] != 28.0 {
		t.Errorf("temperature_c = %v", body["temperature_c"])
	}
	if body["is_charging"] != true {
		t.Errorf("is_charging = %v", body["is_charging"])
	}
}

func TestConnectivityFailureMapsTo503(t *testing.T) {
	server := newTestServer(&stubBridge{
		shellErr: &adb.ConnectivityError{Command: "dumpsys battery", Err: errors.New("device offline")},
	})

	recorder, body := doRequest(t, server, "/battery")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
	if body["error"] != "service degraded" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestEmptyResultMapsTo500(t *testing.T) {
	server := newTestServer(&stubBridge{
		shell: map[string]string{"dumpsys battery": ""},
	})

	recorder, _ := doRequest(t, server, "/battery")
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", recorder.Code)
	}
}

func TestIndexListsEndpoints(t *testing.T) {
	server := newTestServer(&stubBridge{})

	recorder, body := doRequest(t, server, "/")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}

	endpoints, ok := body["endpoints"].(map[string]any)
	if !ok {
		t.Fatalf("endpoints missing: %v", body)
	}
	for _, key := range []string{"health", "battery", "system", "ws_metrics", "metrics"} {
		if _, exists := endpoints[key]; !exists {
			t.Errorf("endpoint %q not advertised", key)
		}
	}
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	server := newTestServer(&stubBridge{
		devices: []adb.Device{{ID: "emulator-5554", State: "device"}},
	})

	recorder, _ := doRequest(t, server, "/health")
	if recorder.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	preflight := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodOptions, "/health", nil)
	server.Router().ServeHTTP(preflight, request)
	if preflight.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", preflight.Code)
	}
}
