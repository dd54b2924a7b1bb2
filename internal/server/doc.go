// Package server fronts the batch action protocol with HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Action Facade
//
// [ActionHandler] serves the action protocol. POST /actions accepts the
// same JSON documents the batch stdio loop reads and responds with the
// same documents it writes; a failure envelope's status field doubles as
// the HTTP response status. GET /health runs the status action.
//
// Mutating actions assume they are the only writer for a playlist, so
// deployments serve them through [SerializeMiddleware].
package server
