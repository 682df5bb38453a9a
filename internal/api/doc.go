// Package api defines the error taxonomy shared by the smartspace packages.
//
// Errors fall into three groups:
//
//   - Programming errors: ProviderMismatchError. Fatal for the operation,
//     never retried.
//   - Expected absence: NotFoundError. Logged and otherwise ignored.
//   - Stream conditions: ErrWidgetNotBound and ErrSubscriptionClosed, used by
//     render subscriptions so that subscribers can tell a void subscription
//     from a widget that lost its binding.
//
// Use IsNotFound and IsProviderMismatch rather than type assertions, since
// errors are frequently wrapped with fmt.Errorf("...: %w", err).
package api
