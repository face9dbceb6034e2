// Package bridge forwards the backend's pushed event streams to the
// client-side consumers.
//
// A Bridge owns one Subscription and one goroutine. Processing events are
// fanned out to every ProcessingSink and file-change events to every
// FileChangeSink, in the order the backend delivered them. Sinks run on the
// bridge goroutine, so they must not block.
//
// Sinks are registered before Start; the bridge stops when Close is called
// or when the backend closes both channels.
package bridge
