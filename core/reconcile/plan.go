package reconcile

import "context"

// ReconcileWithPlan reconciles spec and plans the actions that would bring
// every key back in sync. Nothing is executed.
func ReconcileWithPlan(ctx context.Context, cache *Cache, spec *Spec) (*Plan, error) {
	results, err := ReconcileAll(ctx, cache, spec)
	if err != nil {
		return nil, err
	}
	return BuildPlan(results, spec.Publishing()), nil
}

// BuildPlan derives actions and a summary from results. Publish actions are
// only planned when publishing is set.
func BuildPlan(results []Result, publishing bool) *Plan {
	plan := &Plan{
		Results: results,
		Actions: []Action{},
		Summary: Summary{Total: len(results)},
	}

	for _, r := range results {
		if r.Exported {
			plan.Summary.Exported++
		}
		if r.Generated {
			plan.Summary.Generated++
		}
		if r.Published {
			plan.Summary.Published++
		}

		switch {
		case r.Exported && !r.Generated:
			plan.Summary.MissingGenerated++
			plan.Actions = append(plan.Actions, Action{Type: ActionGenerate, Key: r.Key, Reason: "exported but not generated"})
		case !r.Exported && r.Generated:
			plan.Summary.Orphaned++
			plan.Actions = append(plan.Actions, Action{Type: ActionRemoveOrphan, Key: r.Key, Reason: "generated without an export"})
		}

		if publishing && r.Generated && !r.Published {
			plan.Summary.MissingPublished++
			plan.Actions = append(plan.Actions, Action{Type: ActionPublish, Key: r.Key, Reason: "generated but not published"})
		}
	}
	return plan
}
