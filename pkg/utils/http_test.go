package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestJSONErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, 400, "Message is required")

	if rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "Message is required" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestJSONWriteZeroStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := JSONWrite(rr, 0, map[string]bool{"ok": true}); err != nil {
		t.Fatalf("JSONWrite: %v", err)
	}
	if rr.Code != 200 {
		t.Fatalf("expected implicit 200, got %d", rr.Code)
	}
}
