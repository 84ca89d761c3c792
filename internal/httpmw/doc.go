// Package httpmw provides HTTP middleware for the public API server.
//
// Middleware is composed in a specific order in httpserver.NewHandler:
// security headers, panic recovery, request ID, OTEL tracing, timing,
// metrics, structured logging, API version resolution, deprecation
// headers, access logging, and the chi router.
//
// Each middleware is an independent function that can be tested, reordered,
// or removed individually. Version resolution must run before route dispatch
// so it can short-circuit unsupported versions; deprecation headers are
// stamped on the response of every request that resolved to a retiring
// version.
package httpmw
