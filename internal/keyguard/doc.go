// Package keyguard composes the lock-screen slice: a header with either the
// playing media or the date, the smartspace rows, the next alarm, the
// do-not-disturb indicator and the primary action.
//
// Smartspace is only started for the admin session, and not before the user
// has unlocked the device once. Rows arrive from a RowSource and every new
// set triggers a change notification so the lock screen binds the slice
// again.
package keyguard
