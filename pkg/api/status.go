package api

// SaveStatus is the state of the save-status state machine.
//
//	idle ──► saving ──► saved
//	            │
//	            └─────► error
//
// Any state moves to saving when a new save starts; saved and error are
// otherwise final.
type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)

// CanTransition reports whether the state machine allows moving from s to next.
func (s SaveStatus) CanTransition(next SaveStatus) bool {
	switch next {
	case SaveSaving:
		return true
	case SaveSaved, SaveError:
		return s == SaveSaving
	}
	return false
}

// Color is the badge color the editor shows for the status.
func (s SaveStatus) Color() string {
	switch s {
	case SaveError:
		return "red"
	case SaveSaving:
		return "blue"
	case SaveSaved:
		return "green"
	default:
		return "gray"
	}
}

// SaveTrigger tells whether a save was requested by the user or by the
// autosave debounce.
type SaveTrigger string

const (
	TriggerManual SaveTrigger = "manual"
	TriggerAuto   SaveTrigger = "auto"
)
