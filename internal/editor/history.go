package editor

// State is where a command currently sits in the history.
type State string

const (
	Applied State = "applied"
	Undone  State = "undone"
)

// Entry is a read-only view of one command in the history.
type Entry struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	State State  `json:"state"`
}

// History holds the undo and redo stacks. The top of each stack is the end
// of its slice.
//
// Recording a command clears the redo stack. When a limit is set, the
// oldest applied command is dropped once the undo stack grows past it.
type History struct {
	undo  []*Command
	redo  []*Command
	limit int
}

// NewHistory returns an empty history. A limit of zero or less keeps every
// command.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Record adds cmd to the history and runs mutation as one transaction.
//
// cmd is pushed and the redo stack discarded before mutation runs, so the
// mutation sees the history as it will be after the edit. When a limit is
// set, eviction happens only after mutation succeeds.
//
// Parameters:
//   - cmd: The command being applied. Its Backup must already hold the
//     pre-edit snapshot.
//   - mutation: Installs the edit's result. It must leave the engine
//     unchanged when it fails.
//
// # Errors
//
//   - Returns mutation's error unchanged. Both stacks are then exactly as
//     they were before the call, including the discarded redo commands.
func (h *History) Record(cmd *Command, mutation func() error) error {
	redo := h.redo
	h.undo = append(h.undo, cmd)
	h.redo = nil

	if err := mutation(); err != nil {
		h.undo[len(h.undo)-1] = nil
		h.undo = h.undo[:len(h.undo)-1]
		h.redo = redo
		return err
	}

	if h.limit > 0 && len(h.undo) > h.limit {
		n := len(h.undo) - h.limit
		clear(h.undo[:n])
		h.undo = h.undo[n:]
	}
	return nil
}

// Undo hands the most recent applied command to restore.
//
// Returns:
//   - *Command: The command that moved to the redo stack, or nil when the
//     undo stack is empty. restore is not called in that case.
//   - error: restore's error. The command then stays on the undo stack.
func (h *History) Undo(restore func(*Command) error) (*Command, error) {
	return move(&h.undo, &h.redo, restore)
}

// Redo pops the most recently undone command and hands it to replay. On
// success the command moves back to the undo stack and is returned. An
// empty redo stack returns nil without calling replay.
func (h *History) Redo(replay func(*Command) error) (*Command, error) {
	return move(&h.redo, &h.undo, replay)
}

func move(from, to *[]*Command, fn func(*Command) error) (*Command, error) {
	if len(*from) == 0 {
		return nil, nil
	}
	cmd := (*from)[len(*from)-1]
	if err := fn(cmd); err != nil {
		return nil, err
	}
	(*from)[len(*from)-1] = nil
	*from = (*from)[:len(*from)-1]
	*to = append(*to, cmd)
	return cmd, nil
}

// CanUndo reports whether Undo has a command to act on.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo has a command to act on.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLen returns the depth of the undo stack.
func (h *History) UndoLen() int { return len(h.undo) }

// RedoLen returns the depth of the redo stack.
func (h *History) RedoLen() int { return len(h.redo) }

// Clear drops every command.
func (h *History) Clear() {
	clear(h.undo)
	clear(h.redo)
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// Entries lists the history in timeline order: applied commands oldest
// first, then undone commands in the order redo would replay them.
func (h *History) Entries() []Entry {
	out := make([]Entry, 0, len(h.undo)+len(h.redo))
	for _, c := range h.undo {
		out = append(out, Entry{Kind: c.Kind.String(), Label: c.Label(), State: Applied})
	}
	for i := len(h.redo) - 1; i >= 0; i-- {
		c := h.redo[i]
		out = append(out, Entry{Kind: c.Kind.String(), Label: c.Label(), State: Undone})
	}
	return out
}
