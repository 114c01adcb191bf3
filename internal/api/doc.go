// Package api handles incoming HTTP requests, request validation, and
// response formatting. Handlers translate HTTP concerns into calls on the
// generation gateway, the collection service, and the checkout boundary, and
// map their errors to status codes with MapErrorToStatusCode.
//
// Subpackage shared holds response and context helpers used by handlers and
// middleware; subpackage middleware holds authentication, tracing and rate
// limiting.
package api
