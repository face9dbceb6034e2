// Package reconcile compares the three places a project's outputs live:
// the exported YAML files, the generated DAT files and the published
// objects in storage.
//
// Each source is loaded into a Set of slash separated keys relative to its
// root and without extension, so "items/weapons" names the same target in
// every source. The engine builds the sets concurrently, takes their union
// and reports per key where the target is present.
//
// # Usage
//
//	spec := &reconcile.Spec{
//	    Name:      project,
//	    Exported:  checks.ExportedSet(project),
//	    Generated: checks.GeneratedSet(project),
//	}
//	plan, err := reconcile.ReconcileWithPlan(ctx, cache, spec)
//
// Published is optional; a nil loader means publishing is not configured
// and no publish actions are planned.
package reconcile
