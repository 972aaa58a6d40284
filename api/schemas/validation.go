package schemas

// ValidationResult accumulates semantic findings for one validated record.
// Valid is true exactly when Errors is empty; rule violations are data here,
// never Go errors.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors"`
	ValidationMS uint64   `json:"validation_ms"`
}

// NewValidationResult seals the collected errors into a result.
func NewValidationResult(errors []string, validationMS uint64) ValidationResult {
	return ValidationResult{
		Valid:        len(errors) == 0,
		Errors:       errors,
		ValidationMS: validationMS,
	}
}

// PipelineMetrics reports one stage's measured latency against its budget.
// OverBudget is advisory; emitting it never interrupts the pipeline.
type PipelineMetrics struct {
	StageName  string `json:"stage_name"`
	LatencyMS  uint64 `json:"latency_ms"`
	BudgetMS   uint64 `json:"budget_ms"`
	OverBudget bool   `json:"over_budget"`
}
