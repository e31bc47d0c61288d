package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogJSONError_LogsAndWritesBody(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/api/attendance", nil)
	rec := httptest.NewRecorder()
	el.LogJSONError(rec, req, "encode failed", errors.New("boom"), http.StatusInternalServerError)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Internal Server Error" {
		t.Errorf("error = %q", body["error"])
	}

	entries := logs.FilterMessage("encode failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != "/api/attendance" {
		t.Errorf("path field = %v", got)
	}
}

func TestLogServerError_LogsBeforeRendering(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/attendance/export.xlsx", nil)
	rec := httptest.NewRecorder()

	// Rendering needs a booted template engine; the log entry and status
	// are written before that point.
	func() {
		defer func() { _ = recover() }()
		el.LogServerError(rec, req, "export failed", errors.New("disk"), "", "/attendance")
	}()

	if logs.FilterMessage("export failed").Len() != 1 {
		t.Fatal("expected the fault to be logged")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
