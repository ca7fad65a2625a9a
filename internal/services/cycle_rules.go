package services

// RuleInput is the snapshot of an open cycle's flow history evaluated
// against an incoming flow log.
type RuleInput struct {
	DaysSinceCycleStart int
	DaysSinceLastLog    int
	LogCount            int
	// FlowRanks holds the cycle's existing logs as ordered flow ranks,
	// oldest first (see models.FlowRank).
	FlowRanks      []int
	CurrentRank    int
	CurrentIsLight bool
}

// NewCycleRule is one named predicate of the new-cycle decision table.
type NewCycleRule struct {
	Name    string
	Applies func(input RuleInput) bool
}

// newCycleRules is evaluated in priority order; the first matching rule
// closes the open cycle and starts a new one.
var newCycleRules = []NewCycleRule{
	{
		// More than 3 days since the last flow log of this cycle.
		Name: "significant_gap",
		Applies: func(input RuleInput) bool {
			return input.LogCount > 0 && input.DaysSinceLastLog > 3
		},
	},
	{
		// Flow intensity decreased then increased again across the last
		// three observations. Spotting or light flow from day 10 onward
		// is treated as late-cycle spotting instead.
		Name: "flow_resurgence",
		Applies: func(input RuleInput) bool {
			if input.LogCount < 2 {
				return false
			}
			if input.CurrentIsLight && input.DaysSinceCycleStart >= 10 {
				return false
			}
			previous := input.FlowRanks[input.LogCount-1]
			beforePrevious := input.FlowRanks[input.LogCount-2]
			return beforePrevious > previous && input.CurrentRank > previous
		},
	},
	{
		// Well past the menstrual window and bleeding is not light.
		Name: "late_phase_flow",
		Applies: func(input RuleInput) bool {
			return input.DaysSinceCycleStart >= 14 && !input.CurrentIsLight
		},
	},
}

// EvaluateNewCycle runs the decision table and reports whether the log
// starts a new cycle, along with the name of the rule that fired.
func EvaluateNewCycle(input RuleInput) (bool, string) {
	for _, rule := range newCycleRules {
		if rule.Applies(input) {
			return true, rule.Name
		}
	}
	return false, ""
}
