// Package coordinator holds client-side state over the domain services.
//
// A coordinator is what a UI binds to: it calls a service, caches the
// result in memory, and exposes read accessors plus imperative operations.
// The cached values are disposable projections; the store stays the source
// of truth and every mutation goes through a service call first.
//
// Three coordinators exist:
//   - Auth: the session user and account operations
//   - Listing: the visible listing page and the session user's favorites
//   - Chat: the inbox and the open conversation
//
// Listing and Chat read the session user from Auth, so construct Auth first.
//
// Thread-safety: all methods are safe for concurrent use. Cached state is
// guarded by a mutex; service calls are made without holding it, so two
// overlapping calls may finish in either order and the later finisher wins.
package coordinator
