// Package session assembles the client-side state of the workbench.
//
// A Session owns a folders.Context, the processing and working file
// ledgers, the log aggregator and the event bridge that feeds them. It is
// built in a fixed order: folders, ledgers, aggregator, bridge (started),
// then the persisted settings are applied, which fires the first project
// change. Every project change resets the processing ledger and reloads
// the working file ledger.
//
// # HTTP API
//
// Handler exposes the session as the "session" loader feature:
//
//	GET  /status                    folders, readiness and counters
//	GET  /logs?errors=true&limit=N  log entries, newest first
//	GET  /working-files             keys of existing export files
//	GET  /processing                in-flight operations
//	GET  /targets/fixed/:group      string_tables | items | global_dialog
//	GET  /targets/zones/:category   zones with a target for category
//	PUT  /folders/data              {"path": "..."}
//	PUT  /folders/project           {"path": "..."}
//	POST /export[/:descriptor]      e.g. /export/EntityNames:7
//	POST /generate[/:descriptor]
//
// Processing routes answer 409 Conflict while the folders are not ready.
package session
