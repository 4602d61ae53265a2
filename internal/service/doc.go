// Package service implements the business rules of the listing site on top
// of the collection store.
//
// Each service covers one bounded context:
//   - Auth: login, signup, session, password change and reset tokens
//   - Listings: search, detail views, posting, moderation, favorites, saved searches
//   - Chat: conversations and messages between two users
//   - Users: user and agent profile lookups
//
// Every operation first waits out a simulated network round-trip (see
// Latency), then reads or transforms the store. A call cancelled while it is
// waiting returns ctx.Err() and has no effect; once the store work begins it
// always completes.
//
// Failures are reported as *Error values carrying a Kind. No operation
// panics on bad input and no failure is fatal to the process. Authorization
// is the caller's concern except where a lookup folds it in (GetConversation).
package service
