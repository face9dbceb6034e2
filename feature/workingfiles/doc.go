// Package workingfiles holds the Working File Ledger: which targets have an
// exported file in the active project.
//
// The ledger merges two sources. Reload asks the backend for the
// authoritative list of existing exports; every reload bumps an epoch, and
// a response is applied only if its epoch is still current, so a slow
// enumeration for an earlier project can never overwrite a later one.
// File-change events are live notifications and apply regardless of epoch.
package workingfiles
