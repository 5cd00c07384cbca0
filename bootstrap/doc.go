// Package bootstrap orchestrates the gateway's lifecycle.
//
// It starts registered components in registration order, runs lifecycle
// hooks, prints a startup summary, and blocks until an OS signal triggers a
// graceful reverse-order shutdown. Registration order is the startup
// contract: the service registry is registered first so its initial refresh
// completes before anything that resolves addresses, and the HTTP server is
// registered last so no request arrives before the components behind it are
// running.
package bootstrap
