// Package api is the pure request/response boundary to the deemo service.
//
// A [Client] issues exactly three operations against the configured base
// endpoint: login, signup, and profile fetch. It decodes JSON responses into
// typed results and maps transport, status, and decoding failures into a
// closed sentinel taxonomy. It never touches the credential slot or session
// state; that wiring belongs to the engine in the root package.
package api
