// Package readmodel caches read-only views of backend data.
//
// The gateway renders product and notification lists on every page load but
// owns neither dataset. Instead of proxying each render to the backends, it
// keeps two cached views:
//
//   - Products: the inventory service's catalog, loaded at startup and
//     refreshed on demand (after an order is placed, or via the API).
//   - Notifications: the notification service's feed, refreshed on its own
//     seconds-scale timer.
//
// Both views resolve the backend address through the registry on every
// refresh, record the interaction in the ring log, and keep serving the
// previous data when a refresh fails.
package readmodel
