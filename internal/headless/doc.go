// Package headless binds widgets off-screen and turns their redraws into
// cancellable render subscriptions.
//
// A Manager owns one Widget record per caller-chosen key. Records are bound
// when created; whether a record is still bound is never cached but asked of
// the Binder on every check, because the user can revoke a binding at any
// time.
//
// The host's listening mode is process-wide. The Manager turns it on when it
// starts tracking a record or hands out a live subscription and turns it off
// when the last record is removed. Both transitions happen under the same
// lock that guards the record table.
//
// Subscriptions hold a single slot with the latest undelivered RenderEvent.
// A slow consumer therefore skips intermediate redraws but always sees the
// newest one, in emission order.
package headless
