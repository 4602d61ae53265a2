// Package harness runs behavioural scenarios against the homelist services.
//
// A scenario is a YAML file naming service operations to invoke, the outcome
// each one should have, and assertions over the trace and the final database.
// Every scenario runs against a fresh in-memory store with a manual clock,
// sequential ids ("id-1", "id-2", ...) and no simulated latency, so the trace
// it produces is identical from run to run and can be compared against a
// golden file.
//
// # Scenario Format
//
//	name: favorite_cascade
//	description: "Deleting a listing drops its favorites"
//	seed: fixtures            # or "empty"
//	setup:
//	  - op: auth.login
//	    args: { email: an.nguyen@example.com, password: password123 }
//	flow:
//	  - op: listing.delete
//	    args: { id: l-1 }
//	  - op: favorite.add
//	    args: { userId: u-buyer-1, listingId: l-1 }
//	    expect:
//	      kind: NOT_FOUND
//	assertions:
//	  - type: state_count
//	    collection: favorites
//	    where: { listingId: l-1 }
//	    count: 0
//
// Setup steps must succeed; a failing setup step aborts the run. Flow steps
// record whatever happens, and an expect clause turns a mismatch into a
// scenario error. Kinds are the service error kinds plus OK.
//
// A step with save_as stores the scalar fields of its result as variables
// ("$name.field"). Password-reset links handed to the notifier are exposed
// as $reset.email, $reset.link and $reset.token.
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace with matching args
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//   - final_state: exactly one record in a collection matches where, and it
//     carries the expected fields
//   - state_count: exactly N records in a collection match where
package harness
