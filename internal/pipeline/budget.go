// Package pipeline holds the per-stage latency budgets for the
// perceive-decide-act loop and checks measured latencies against them.
// Budgets are fixed constants of the loop design, not configuration.
package pipeline

import (
	"github.com/vex0ray/spyglass/api/schemas"
)

// Stage names understood by Check.
const (
	StageRSProxPoll   = "rsprox_poll"
	StagePerception   = "perception"
	StageDecision     = "decision"
	StageExecution    = "execution"
	StageVerification = "verification"
	StageTotal        = "total"
)

// TotalBudgetMS bounds one full loop iteration and doubles as the budget
// for stages Check does not recognize.
const TotalBudgetMS uint64 = 600

// StageBudget is one row of the budget table.
type StageBudget struct {
	Stage    string `json:"stage"`
	BudgetMS uint64 `json:"budget_ms"`
}

// stageBudgets is ordered the way stages run in the loop.
var stageBudgets = []StageBudget{
	{StageRSProxPoll, 50},
	{StagePerception, 100},
	{StageDecision, 200},
	{StageExecution, 150},
	{StageVerification, 50},
}

// BudgetFor returns the latency budget for a stage. Unknown stages get the
// total loop budget, so a misspelled stage name can still only flag truly
// pathological latencies.
func BudgetFor(stage string) uint64 {
	for _, b := range stageBudgets {
		if b.Stage == stage {
			return b.BudgetMS
		}
	}
	return TotalBudgetMS
}

// Check compares a measured latency against the stage's budget. A latency
// exactly at the budget is within it.
func Check(stage string, latencyMS uint64) schemas.PipelineMetrics {
	budget := BudgetFor(stage)
	return schemas.PipelineMetrics{
		StageName:  stage,
		LatencyMS:  latencyMS,
		BudgetMS:   budget,
		OverBudget: latencyMS > budget,
	}
}

// Budgets returns the budget table in loop order, with the total appended
// as the final row.
func Budgets() []StageBudget {
	out := make([]StageBudget, 0, len(stageBudgets)+1)
	out = append(out, stageBudgets...)
	out = append(out, StageBudget{StageTotal, TotalBudgetMS})
	return out
}
