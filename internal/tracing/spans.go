package tracing

// Span attribute keys.
const (
	AttrRegistryName       = "registry.name"
	AttrRegistrySource     = "registry.source"
	AttrRegistryGeneration = "registry.generation"
	AttrRegistryRevision   = "registry.revision"
	AttrRegistryKeys       = "registry.keys"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"
	AttrRequestID  = "http.request.id"
)

// Span names.
const (
	SpanRegistryReload = "registry.reload"
	SpanHTTPRequest    = "http.request"
)
