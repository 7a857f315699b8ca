package state

// UIState governs which actions are legal and what they mean.
type UIState uint8

const (
	Normal UIState = iota
	CommitMessageEntry
	ConfirmCommit
	ConfirmQuit
	CommitDetails
	CreateBranchEntry
	KeyGuide
	ConfirmMerge
	Error
)

func (s UIState) String() string {
	switch s {
	case Normal:
		return "normal"
	case CommitMessageEntry:
		return "commit-message"
	case ConfirmCommit:
		return "confirm-commit"
	case ConfirmQuit:
		return "confirm-quit"
	case CommitDetails:
		return "commit-details"
	case CreateBranchEntry:
		return "create-branch"
	case KeyGuide:
		return "key-guide"
	case ConfirmMerge:
		return "confirm-merge"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// InputMode decides how raw keys are decoded into actions.
type InputMode uint8

const (
	Command InputMode = iota
	Text
)

func (m InputMode) String() string {
	if m == Text {
		return "text"
	}
	return "command"
}

// Screen is the current UI state together with the data that only exists
// while that state is active. The set of implementations is closed.
type Screen interface {
	UIState() UIState
	screen()
}

// NormalScreen is the browsing state.
type NormalScreen struct{}

// CommitMessageScreen is composing a commit message.
type CommitMessageScreen struct {
	Message string
}

// ConfirmCommitScreen asks once more before committing and pushing Message.
type ConfirmCommitScreen struct {
	Message string
}

// ConfirmQuitScreen asks before terminating.
type ConfirmQuitScreen struct{}

// CommitDetailsScreen shows the full metadata and patch of the commit ID.
type CommitDetailsScreen struct {
	ID     string
	Detail string
}

// CreateBranchScreen is composing the name of a new branch.
type CreateBranchScreen struct {
	Name string
}

// KeyGuideScreen shows the static help.
type KeyGuideScreen struct{}

// ConfirmMergeScreen asks before merging into the main line.
type ConfirmMergeScreen struct{}

// ErrorScreen displays the message of a failed repository operation.
type ErrorScreen struct {
	Message string
}

func (NormalScreen) UIState() UIState        { return Normal }
func (CommitMessageScreen) UIState() UIState { return CommitMessageEntry }
func (ConfirmCommitScreen) UIState() UIState { return ConfirmCommit }
func (ConfirmQuitScreen) UIState() UIState   { return ConfirmQuit }
func (CommitDetailsScreen) UIState() UIState { return CommitDetails }
func (CreateBranchScreen) UIState() UIState  { return CreateBranchEntry }
func (KeyGuideScreen) UIState() UIState      { return KeyGuide }
func (ConfirmMergeScreen) UIState() UIState  { return ConfirmMerge }
func (ErrorScreen) UIState() UIState         { return Error }

func (NormalScreen) screen()        {}
func (CommitMessageScreen) screen() {}
func (ConfirmCommitScreen) screen() {}
func (ConfirmQuitScreen) screen()   {}
func (CommitDetailsScreen) screen() {}
func (CreateBranchScreen) screen()  {}
func (KeyGuideScreen) screen()      {}
func (ConfirmMergeScreen) screen()  {}
func (ErrorScreen) screen()         {}

// transitions lists the legal targets of every state. Error is reachable
// from everywhere and is not listed. Staying in the same state (payload
// edits) is always legal.
var transitions = map[UIState][]UIState{
	Normal:             {CommitMessageEntry, CreateBranchEntry, CommitDetails, KeyGuide, ConfirmMerge, ConfirmQuit},
	CommitMessageEntry: {ConfirmCommit, Normal},
	ConfirmCommit:      {Normal},
	CreateBranchEntry:  {Normal},
	CommitDetails:      {Normal},
	KeyGuide:           {Normal},
	ConfirmMerge:       {Normal},
	ConfirmQuit:        {Normal},
	Error:              {Normal},
}

// CanTransition reports whether the state machine allows moving from one
// state to another.
func CanTransition(from, to UIState) bool {
	if to == Error || from == to {
		return true
	}
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// ModeOf derives the input mode of a UI state.
func ModeOf(s UIState) InputMode {
	switch s {
	case CommitMessageEntry, CreateBranchEntry:
		return Text
	default:
		return Command
	}
}
