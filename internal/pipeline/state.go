package pipeline

// State is the driver position in the fixed stage sequence. Transitions
// follow the stage order strictly; any fatal failure jumps to StateAborted
// and skips everything after it, housekeeping included.
type State string

const (
	StateIdle         State = "idle"
	StateCleaning     State = "cleaning"
	StateConfiguring  State = "configuring"
	StateBuilding     State = "building"
	StateDocumenting  State = "documenting"
	StateTesting      State = "testing"
	StatePublishing   State = "publishing"
	StatePackaging    State = "packaging"
	StateHouseKeeping State = "housekeeping"
	StateDone         State = "done"
	StateAborted      State = "aborted"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool { return s == StateDone || s == StateAborted }
