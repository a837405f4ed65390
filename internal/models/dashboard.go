package models

// Selection is what the main pane of the dashboard shows.
type Selection string

const (
	SelectionNone    Selection = ""
	SelectionNewTest Selection = "new_test"
	SelectionEntry   Selection = "entry"
)

// Phase is the progress of the new-test workflow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseChecking   Phase = "checking"
	PhaseCheckReady Phase = "check_ready"
	PhaseCheckError Phase = "check_error"
	PhaseSaving     Phase = "saving"
	PhaseSaveReady  Phase = "save_ready"
	PhaseSaveError  Phase = "save_error"
)

// DashboardState is the per-session dashboard state.
//
// Generation increases on every navigation. Results of slow collaborator calls are only written back when the
// generation they started with is still current.
type DashboardState struct {
	Generation int64
	Selection  Selection
	EntryID    string
	Phase      Phase
	URL        string
	// Result is set from CheckReady until the entry is saved or the user navigates away.
	Result   *CheckResult
	Feedback Feedback
	// Error is the collaborator message of the last failed check or save.
	Error string
	// SavedReelID is the reel id of the last saved entry.
	SavedReelID string
}

// HasResult reports whether a check result is available for saving.
func (s DashboardState) HasResult() bool {
	return s.Result != nil && (s.Phase == PhaseCheckReady || s.Phase == PhaseSaveError || s.Phase == PhaseSaving)
}
