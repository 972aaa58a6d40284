package snapshot

// UnknownPhase names progress values outside the tracked range.
const UnknownPhase = "unknown"

// PhaseStep maps a progress threshold to the phase that starts there. A
// phase runs from its threshold up to the next step's threshold.
type PhaseStep struct {
	Threshold int
	Name      string
}

// tutorialPhases is ordered by ascending threshold. The final step is
// open-ended.
var tutorialPhases = []PhaseStep{
	{0, "character_creation"},
	{1, "gielinor_guide"},
	{20, "survival_expert"},
	{70, "master_chef"},
	{120, "quest_guide"},
	{170, "mining_instructor"},
	{230, "combat_instructor"},
	{270, "financial_advisor"},
	{310, "brother_brace"},
	{400, "magic_instructor"},
	{500, "magic_instructor_final"},
	{600, "completed"},
}

// TutorialPhase names the tutorial phase for a progress counter value.
// Negative progress is UnknownPhase.
func TutorialPhase(progress int) string {
	if progress < 0 {
		return UnknownPhase
	}
	for i := len(tutorialPhases) - 1; i >= 0; i-- {
		if progress >= tutorialPhases[i].Threshold {
			return tutorialPhases[i].Name
		}
	}
	return UnknownPhase
}

// PhaseSteps returns a copy of the phase table in threshold order.
func PhaseSteps() []PhaseStep {
	out := make([]PhaseStep, len(tutorialPhases))
	copy(out, tutorialPhases)
	return out
}
