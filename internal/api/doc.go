// Package api is the wizard's remote data-access collaborator.
//
// DataAccess is the contract the wizard consumes. Client implements it over
// the backend's REST API: it builds request payloads from typed domain
// values, normalizes backend field names into canonical client records, and
// turns error responses into a small taxonomy:
//
//   - not found is a return flag, never an error
//   - *ValidationError carries per-field messages from the backend
//   - *APIError is any other non-2xx response
//   - ErrMalformedResponse is a 2xx response that is not JSON
//   - transport failures and an open circuit breaker pass through wrapped
//
// Callers show generic text for everything except ValidationError; the
// detail is logged here.
package api
