// Package folders holds the Folder Context: the active game data path, the
// active project path and the recent project list.
//
// Selections are optimistic. The local value changes at once, the backend
// is asked to confirm it, and the confirmed value is merged back. If the
// backend rejects the path the local value reverts to none and the error
// goes to the Notifier; it is never returned to the caller.
//
// Listeners registered with OnProjectChange are called synchronously, in
// registration order, after a change of the resolved project path. State
// that must follow the backend while it is still confirming a project, such
// as in-flight operations, registers a SelectionObserver instead.
package folders
