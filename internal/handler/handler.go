// Package handler is the HTTP layer. Handlers bind and validate requests
// through the typed Handle pipeline, call a service and return its result;
// business rules stay in the service package.
package handler
