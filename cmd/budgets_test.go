// File: cmd/budgets_test.go
package cmd

import (
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/internal/pipeline"
)

func TestBudgetsTable(t *testing.T) {
	output, err := executeCommand(t, "budgets")
	require.NoError(t, err)
	assert.Contains(t, output, "STAGE")
	assert.Contains(t, output, "rsprox_poll")
	assert.Contains(t, output, "perception")
	assert.Contains(t, output, "total")
	assert.Contains(t, output, "600")
}

func TestBudgetsJSON(t *testing.T) {
	output, err := executeCommand(t, "budgets", "--json")
	require.NoError(t, err)

	var budgets []pipeline.StageBudget
	require.NoError(t, json.Unmarshal([]byte(output), &budgets))
	require.Len(t, budgets, 6)
	assert.Equal(t, pipeline.StageBudget{Stage: "rsprox_poll", BudgetMS: 50}, budgets[0])
	assert.Equal(t, pipeline.StageBudget{Stage: "total", BudgetMS: 600}, budgets[5])
}
