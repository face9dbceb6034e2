// Package processing holds the Processing Ledger: which operations are in
// flight for which targets.
//
// Each (operation kind, descriptor key) moves Idle -> InFlight on a Working
// event and back to Idle on the terminal Finished or Error event. A global
// counter tracks the number of in-flight entries and always equals the
// number of set entries; terminal events for idle keys are dropped, so a
// duplicate or late terminal event never drives the counter below the
// entries it accounts for.
//
// The ledger is project scoped. It observes project selections: it clears
// when a selection starts, accepts events for the incoming project while the
// backend confirms it, and then adopts the confirmed path. Events stamped
// with any other project are dropped so that work started under the
// previous project cannot disturb the new baseline. Reset covers changes
// that do not go through a selection, such as restoring persisted folders.
package processing
