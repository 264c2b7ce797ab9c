package logging

import (
	"errors"
	"testing"
	"time"
)

func TestNewFields(t *testing.T) {
	fields := NewFields()
	if fields == nil {
		t.Fatal("NewFields() returned nil")
	}
	if len(fields) != 0 {
		t.Errorf("NewFields() should be empty, got %d fields", len(fields))
	}
}

func TestStandardFields_Component(t *testing.T) {
	fields := NewFields().Component("test-component")

	if fields["component"] != "test-component" {
		t.Errorf("Component() = %v, want %v", fields["component"], "test-component")
	}
}

func TestStandardFields_Operation(t *testing.T) {
	fields := NewFields().Operation("create")

	if fields["operation"] != "create" {
		t.Errorf("Operation() = %v, want %v", fields["operation"], "create")
	}
}

func TestStandardFields_Resource(t *testing.T) {
	fields := NewFields().Resource("source", "https://example.com/a")

	if fields["resource_type"] != "source" {
		t.Errorf("Resource() resource_type = %v, want %v", fields["resource_type"], "source")
	}
	if fields["resource_name"] != "https://example.com/a" {
		t.Errorf("Resource() resource_name = %v, want %v", fields["resource_name"], "https://example.com/a")
	}
}

func TestStandardFields_ResourceWithoutName(t *testing.T) {
	fields := NewFields().Resource("source", "")

	if fields["resource_type"] != "source" {
		t.Errorf("Resource() resource_type = %v, want %v", fields["resource_type"], "source")
	}
	if _, exists := fields["resource_name"]; exists {
		t.Error("Resource() should not set resource_name when empty")
	}
}

func TestStandardFields_Duration(t *testing.T) {
	duration := 150 * time.Millisecond
	fields := NewFields().Duration(duration)

	if fields["duration_ms"] != int64(150) {
		t.Errorf("Duration() = %v, want %v", fields["duration_ms"], int64(150))
	}
}

func TestStandardFields_Error(t *testing.T) {
	err := errors.New("test error")
	fields := NewFields().Error(err)

	if fields["error"] != "test error" {
		t.Errorf("Error() = %v, want %v", fields["error"], "test error")
	}
}

func TestStandardFields_ErrorNil(t *testing.T) {
	fields := NewFields().Error(nil)

	if _, exists := fields["error"]; exists {
		t.Error("Error(nil) should not set error field")
	}
}

func TestStandardFields_UserID(t *testing.T) {
	fields := NewFields().UserID("user-123")

	if fields["user_id"] != "user-123" {
		t.Errorf("UserID() = %v, want %v", fields["user_id"], "user-123")
	}
}

func TestStandardFields_UserIDEmpty(t *testing.T) {
	fields := NewFields().UserID("")

	if _, exists := fields["user_id"]; exists {
		t.Error("UserID(\"\") should not set user_id field")
	}
}

func TestStandardFields_RequestID(t *testing.T) {
	fields := NewFields().RequestID("req-123")

	if fields["request_id"] != "req-123" {
		t.Errorf("RequestID() = %v, want %v", fields["request_id"], "req-123")
	}
}

func TestStandardFields_TraceID(t *testing.T) {
	fields := NewFields().TraceID("trace-123")

	if fields["trace_id"] != "trace-123" {
		t.Errorf("TraceID() = %v, want %v", fields["trace_id"], "trace-123")
	}
}

func TestStandardFields_StatusCode(t *testing.T) {
	fields := NewFields().StatusCode(404)

	if fields["status_code"] != 404 {
		t.Errorf("StatusCode() = %v, want %v", fields["status_code"], 404)
	}
}

func TestStandardFields_Method(t *testing.T) {
	fields := NewFields().Method("GET")

	if fields["method"] != "GET" {
		t.Errorf("Method() = %v, want %v", fields["method"], "GET")
	}
}

func TestStandardFields_URL(t *testing.T) {
	fields := NewFields().URL("https://api.example.com")

	if fields["url"] != "https://api.example.com" {
		t.Errorf("URL() = %v, want %v", fields["url"], "https://api.example.com")
	}
}

func TestStandardFields_Count(t *testing.T) {
	fields := NewFields().Count(42)

	if fields["count"] != 42 {
		t.Errorf("Count() = %v, want %v", fields["count"], 42)
	}
}

func TestStandardFields_Size(t *testing.T) {
	fields := NewFields().Size(1024)

	if fields["size_bytes"] != int64(1024) {
		t.Errorf("Size() = %v, want %v", fields["size_bytes"], int64(1024))
	}
}

func TestStandardFields_Version(t *testing.T) {
	fields := NewFields().Version("v1.2.3")

	if fields["version"] != "v1.2.3" {
		t.Errorf("Version() = %v, want %v", fields["version"], "v1.2.3")
	}
}

func TestStandardFields_Custom(t *testing.T) {
	fields := NewFields().Custom("custom_key", "custom_value")

	if fields["custom_key"] != "custom_value" {
		t.Errorf("Custom() = %v, want %v", fields["custom_key"], "custom_value")
	}
}

func TestStandardFields_ChainedCalls(t *testing.T) {
	fields := NewFields().
		Component("test").
		Operation("create").
		Resource("source", "test-source").
		Duration(100 * time.Millisecond).
		Count(5)

	expected := map[string]interface{}{
		"component":     "test",
		"operation":     "create",
		"resource_type": "source",
		"resource_name": "test-source",
		"duration_ms":   int64(100),
		"count":         5,
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("Chained calls: %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestStandardFields_KeysAndValues(t *testing.T) {
	fields := NewFields().
		Component("test").
		Operation("create")

	kv := fields.KeysAndValues()
	if kv == nil {
		t.Fatal("KeysAndValues() should not return nil")
	}
	if len(kv) != 4 {
		t.Fatalf("KeysAndValues() should contain 2 pairs (4 entries), got %d entries", len(kv))
	}

	asMap := fields.ToMap()
	if asMap["component"] != "test" {
		t.Errorf("ToMap() component = %v, want %v", asMap["component"], "test")
	}
	if asMap["operation"] != "create" {
		t.Errorf("ToMap() operation = %v, want %v", asMap["operation"], "create")
	}
}

func TestDatabaseFields(t *testing.T) {
	fields := DatabaseFields("upsert", "briefs")

	expected := map[string]interface{}{
		"component":     "database",
		"operation":     "upsert",
		"resource_type": "collection",
		"resource_name": "briefs",
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("DatabaseFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestHTTPFields(t *testing.T) {
	fields := HTTPFields("POST", "/analyze", 201)

	expected := map[string]interface{}{
		"component":   "http",
		"method":      "POST",
		"url":         "/analyze",
		"status_code": 201,
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("HTTPFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestPipelineFields(t *testing.T) {
	fields := PipelineFields("ngram", "rozwod w warszawie")

	expected := map[string]interface{}{
		"component":     "pipeline",
		"operation":     "ngram",
		"resource_type": "keyword",
		"resource_name": "rozwod w warszawie",
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("PipelineFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestSerpFields(t *testing.T) {
	fields := SerpFields("dataforseo", "fetch_organic", "rozwod")

	expected := map[string]interface{}{
		"component": "serp",
		"operation": "fetch_organic",
		"provider":  "dataforseo",
		"keyword":   "rozwod",
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("SerpFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestScrapeFields(t *testing.T) {
	fields := ScrapeFields("fetch", "https://example.com/a")

	expected := map[string]interface{}{
		"component": "scrape",
		"operation": "fetch",
		"url":       "https://example.com/a",
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("ScrapeFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestAIFields(t *testing.T) {
	fields := AIFields("causal_extraction", "claude-3-haiku")

	expected := map[string]interface{}{
		"component": "ai",
		"operation": "causal_extraction",
		"model":     "claude-3-haiku",
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("AIFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestMetricsFields(t *testing.T) {
	fields := MetricsFields("record", "scrape_success_total", 85.5)

	expected := map[string]interface{}{
		"component":   "metrics",
		"operation":   "record",
		"metric_name": "scrape_success_total",
		"value":       85.5,
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("MetricsFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}

func TestPerformanceFields(t *testing.T) {
	duration := 250 * time.Millisecond
	fields := PerformanceFields("scrape_source", duration, true)

	expected := map[string]interface{}{
		"component":   "performance",
		"operation":   "scrape_source",
		"duration_ms": int64(250),
		"success":     true,
	}

	for key, expectedValue := range expected {
		if fields[key] != expectedValue {
			t.Errorf("PerformanceFields() %s = %v, want %v", key, fields[key], expectedValue)
		}
	}
}
