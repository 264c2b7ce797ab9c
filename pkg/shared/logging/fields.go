// Package logging supplies structured field builders layered over logr, so
// every component logs with a consistent, greppable vocabulary instead of
// ad-hoc key names.
package logging

import "time"

// Fields is an ordered bag of structured log attributes.
type Fields map[string]interface{}

func NewFields() Fields {
	return Fields{}
}

func (f Fields) Component(name string) Fields {
	f["component"] = name
	return f
}

func (f Fields) Operation(op string) Fields {
	f["operation"] = op
	return f
}

func (f Fields) Resource(resourceType, resourceName string) Fields {
	f["resource_type"] = resourceType
	if resourceName != "" {
		f["resource_name"] = resourceName
	}
	return f
}

func (f Fields) Duration(d time.Duration) Fields {
	f["duration_ms"] = d.Milliseconds()
	return f
}

func (f Fields) Error(err error) Fields {
	if err != nil {
		f["error"] = err.Error()
	}
	return f
}

func (f Fields) UserID(id string) Fields {
	if id != "" {
		f["user_id"] = id
	}
	return f
}

func (f Fields) RequestID(id string) Fields {
	if id != "" {
		f["request_id"] = id
	}
	return f
}

func (f Fields) TraceID(id string) Fields {
	if id != "" {
		f["trace_id"] = id
	}
	return f
}

func (f Fields) StatusCode(code int) Fields {
	f["status_code"] = code
	return f
}

func (f Fields) Method(m string) Fields {
	f["method"] = m
	return f
}

func (f Fields) URL(u string) Fields {
	f["url"] = u
	return f
}

func (f Fields) Count(n int) Fields {
	f["count"] = n
	return f
}

func (f Fields) Size(bytes int64) Fields {
	f["size_bytes"] = bytes
	return f
}

func (f Fields) Version(v string) Fields {
	f["version"] = v
	return f
}

func (f Fields) Custom(key string, value interface{}) Fields {
	f[key] = value
	return f
}

// KeysAndValues flattens Fields into the variadic key/value slice logr's
// Info/Error methods expect.
func (f Fields) KeysAndValues() []interface{} {
	kv := make([]interface{}, 0, len(f)*2)
	for k, v := range f {
		kv = append(kv, k, v)
	}
	return kv
}

// ToMap returns the underlying map, useful when a sink wants map[string]any
// directly (e.g. the zap SugaredLogger's With(fields)).
func (f Fields) ToMap() map[string]interface{} {
	return map[string]interface{}(f)
}

// DatabaseFields builds fields for the optional document-store persistence
// path (pkg/store) — upsert/read of a Brief by project id.
func DatabaseFields(operation, collection string) Fields {
	return NewFields().Component("database").Operation(operation).Resource("collection", collection)
}

// HTTPFields builds fields for an inbound or outbound HTTP call.
func HTTPFields(method, url string, statusCode int) Fields {
	return NewFields().Component("http").Method(method).URL(url).StatusCode(statusCode)
}

// PipelineFields builds fields for one stage of the orchestrator (§4.N):
// scrape, ngram, keyphrase, entity, concept, relation, causal, gap,
// salience, compliance.
func PipelineFields(stage, mainKeyword string) Fields {
	return NewFields().Component("pipeline").Operation(stage).Resource("keyword", mainKeyword)
}

// SerpFields builds fields for a SERP provider call.
func SerpFields(provider, operation, keyword string) Fields {
	return NewFields().Component("serp").Operation(operation).Custom("provider", provider).Custom("keyword", keyword)
}

// ScrapeFields builds fields for a single content-extractor fetch.
func ScrapeFields(operation, url string) Fields {
	return NewFields().Component("scrape").Operation(operation).URL(url)
}

// AIFields builds fields for an LLM call (PAA fallback, causal extraction).
func AIFields(operation, model string) Fields {
	return NewFields().Component("ai").Operation(operation).Custom("model", model)
}

// MetricsFields builds fields for a metrics-recording event.
func MetricsFields(operation, metricName string, value float64) Fields {
	return NewFields().Component("metrics").Operation(operation).Custom("metric_name", metricName).Custom("value", value)
}

// PerformanceFields builds fields summarising a timed operation's outcome.
func PerformanceFields(operation string, duration time.Duration, success bool) Fields {
	return NewFields().Component("performance").Operation(operation).Duration(duration).Custom("success", success)
}
