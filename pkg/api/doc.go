// Package api is the remote REST collaborator for the K-MATO backend.
//
// The backend is inconsistent about response shapes: some endpoints return a
// bare JSON payload, others wrap it in a {success, message, data} envelope.
// The client normalizes this once at the boundary (data when the envelope is
// present, the raw body otherwise) so no call site needs to care.
//
// Every call opens an OpenTelemetry span from the global tracer provider and
// attaches the bearer token supplied by the configured TokenProvider.
package api
