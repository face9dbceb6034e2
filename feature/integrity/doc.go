// Package integrity checks that a project is in a usable state.
//
// It validates the project layout and lookup tables, probes the publishing
// bucket and reconciles the exported files against the generated DATs and
// the published objects.
//
// # Checks Provided
//
//   - Structure: raw_data, generated_dats and lookup_tables exist (fixable).
//   - Lookup: lookup_tables/zones.yml exists and parses.
//   - Storage: the bucket exists and how many DATs it holds.
//   - Outputs: which targets are exported but not generated, generated but
//     not published, or generated without an export.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/lookup : Runs lookup check.
//   - GET /integrity/storage : Runs storage check.
//   - GET /integrity/outputs : Reconciles outputs (supports ?refresh=true).
//   - GET /integrity/outputs/:descriptor : Reconciles one target.
package integrity
