package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(50), BudgetFor(StageRSProxPoll))
	assert.Equal(t, uint64(100), BudgetFor(StagePerception))
	assert.Equal(t, uint64(200), BudgetFor(StageDecision))
	assert.Equal(t, uint64(150), BudgetFor(StageExecution))
	assert.Equal(t, uint64(50), BudgetFor(StageVerification))

	assert.Equal(t, TotalBudgetMS, BudgetFor("warp_drive"), "unknown stages fall back to the loop budget")
	assert.Equal(t, TotalBudgetMS, BudgetFor(""))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	under := Check(StagePerception, 42)
	assert.Equal(t, StagePerception, under.StageName)
	assert.Equal(t, uint64(42), under.LatencyMS)
	assert.Equal(t, uint64(100), under.BudgetMS)
	assert.False(t, under.OverBudget)

	exact := Check(StagePerception, 100)
	assert.False(t, exact.OverBudget, "hitting the budget exactly is within it")

	over := Check(StagePerception, 101)
	assert.True(t, over.OverBudget)

	unknown := Check("mystery", 400)
	assert.Equal(t, TotalBudgetMS, unknown.BudgetMS)
	assert.False(t, unknown.OverBudget)
	assert.True(t, Check("mystery", 601).OverBudget)
}

func TestBudgetsTableOrder(t *testing.T) {
	t.Parallel()

	table := Budgets()
	require.Len(t, table, 6)

	wantOrder := []string{
		StageRSProxPoll,
		StagePerception,
		StageDecision,
		StageExecution,
		StageVerification,
		StageTotal,
	}
	var sum uint64
	for i, row := range table {
		assert.Equal(t, wantOrder[i], row.Stage)
		if row.Stage != StageTotal {
			sum += row.BudgetMS
		}
	}
	assert.Equal(t, uint64(550), sum, "stage budgets leave headroom under the loop budget")
	assert.Equal(t, TotalBudgetMS, table[len(table)-1].BudgetMS)

	table[0].BudgetMS = 9999
	assert.Equal(t, uint64(50), BudgetFor(StageRSProxPoll), "Budgets returns a copy")
}
