// Package accounts is a client-resident identity and entitlement store: it
// authenticates accounts, gates access behind administrator approval, and
// meters a consumable word quota per account plus an anonymous daily demo
// quota. There is no network tier; the package is the backend, colocated
// with its caller.
//
// Persistence:
//   - All components share one Store, a key to JSON-document capability with
//     whole-collection reads and writes. MemoryStore is the in-process test
//     double; BunStore keeps collections durable through a bun database.
//     One collection is the unit of atomicity, and the design assumes a
//     single active writer per process.
//
// Admission:
//   - New accounts start unapproved. Approvals partitions non-admin accounts
//     into pending and approved on every read and exposes the only two
//     transitions, approve and reject. Rejection removes the account but
//     keeps its credential entry, so the username stays burned.
//
// Metering:
//   - Meter adds each generation's word count to the owning account and
//     refreshes the active session so callers read their own writes.
//     DemoQuota tracks anonymous use per calendar date against a 5000 word
//     daily limit; the gate is advisory and enforced by the caller.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by the
//     authenticator, the approval workflow, and registration. Sinks run
//     best-effort (errors are logged) so hosts can forward events without
//     blocking the operation.
package accounts
