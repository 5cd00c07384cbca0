// Package server provides the gateway's HTTP surface.
//
// The server is backed by Gin mounted on an http.ServeMux and wrapped with
// h2c so HTTP/2 cleartext clients share the same port. The standard
// middleware stack (recovery, request IDs, CORS, body-size limits, optional
// rate limiting) is applied with ApplyMiddleware; request logging wraps the
// whole handler so every mounted route is covered.
//
// System endpoints live in the endpoint subpackage; the gateway's own API
// routes are registered by the api package against the Gin engine.
package server
