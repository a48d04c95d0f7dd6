package reconcile

// BuildPlan derives the actions a mirror run will take from sorted
// comparison entries and a policy. Pure and deterministic: the same
// entries and policy always yield the same plan, so a dry run reports
// exactly what a real run would execute.
//
// Per entry: OnlyFirst is always copied; Different is copied only with
// Overwrite, otherwise skipped; OnlySecond is deleted only with
// DeleteExtraneous, otherwise skipped; Same is always skipped. ToCopy and
// ToDelete preserve the input entry order.
func BuildPlan(entries []Entry, policy Policy) Plan {
	plan := Plan{
		ToCopy:   []string{},
		ToDelete: []string{},
	}

	for _, entry := range entries {
		switch entry.Status {
		case StatusOnlyFirst:
			plan.ToCopy = append(plan.ToCopy, entry.Key)
		case StatusDifferent:
			if policy.Overwrite {
				plan.ToCopy = append(plan.ToCopy, entry.Key)
			} else {
				plan.Skipped++
			}
		case StatusOnlySecond:
			if policy.DeleteExtraneous {
				plan.ToDelete = append(plan.ToDelete, entry.Key)
			} else {
				plan.Skipped++
			}
		case StatusSame:
			plan.Skipped++
		}
	}

	return plan
}
