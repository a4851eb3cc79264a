// Package event carries the closed set of lifecycle events published by
// the session controller and consumed by the UI state store.
//
// Each event is a typed variant implementing [Event]; there is no
// open-ended payload bag. The [Bus] dispatches synchronously: Publish
// returns after every subscribed handler ran, and a panicking handler
// cannot block delivery to the others.
//
// Event type strings follow "category.action":
//   - account.created, account.switch, account.list_refreshed
//   - options.updated
//   - session.opened, session.closed, session.close_failed
package event
