// Package server provides HTTP routing, middleware, and the catalog facade handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, leaning on its
// method-qualified patterns ("GET /api/records/{id}") for method filtering and path parameters.
//
// # Catalog Facade
//
// [API] is the explicit context shared by every handler: a [services.Catalog]
// and a logger. Handlers never reach for process-global state.
//
// Each entity gets its own handler (records, artists, genres, stores) plus one
// for the report engine. Responses follow a small JSON contract: created ids as
// {"record_id": n}, 204 on update/delete, {"error": msg, "code": c} with
// 400/404 on client failures, and a withheld message on 500. The code field
// ("validation", "in_use", "not_found", "internal") lets clients branch
// without parsing messages.
//
// # Middleware
//
// [RequestLogger] tags each request with a generated id and logs method, path
// and duration. [Throttle] applies a token-bucket rate limit and answers
// 429 when the bucket is empty.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
