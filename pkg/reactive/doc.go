// Package reactive provides the hot-observable primitive the K-MATO stores
// publish through.
//
// A Signal holds a value and a subscriber list. Subscribing replays the
// current value synchronously before any future change is delivered
// (replay-latest semantics), so a late subscriber and a fresh read always
// agree. Publication is synchronous: Set returns only after every current
// subscriber has observed the new value.
package reactive
