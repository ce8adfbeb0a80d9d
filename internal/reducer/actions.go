package reducer

import "github.com/gosuda/kanban/internal/domain"

// Action is a store transition request. The set of actions is closed; Reduce
// ignores anything it does not recognise.
type Action interface {
	Type() string
	isAction()
}

// Action type names. Hydration uses the three-phase async naming.
const (
	TypeTaskAdded             = "taskAdded"
	TypeTaskUpdated           = "taskUpdated"
	TypeTaskDeleted           = "taskDeleted"
	TypeTaskMoved             = "taskMoved"
	TypeSubtaskToggled        = "subtaskToggled"
	TypeBoardCreated          = "boardCreated"
	TypeBoardRemoved          = "boardRemoved"
	TypeBoardUpdated          = "boardUpdated"
	TypeColumnCreated         = "columnCreated"
	TypeColumnRemoved         = "columnRemoved"
	TypeColumnUpdated         = "columnUpdated"
	TypeBoardColumnsReordered = "boardColumnsReordered"
	TypeActiveBoardSet        = "activeBoardSet"
	TypeThemeSet              = "themeSet"
	TypeStateReset            = "stateReset"
	TypeHydrationPending      = "kanban/fetchData/pending"
	TypeHydrationFulfilled    = "kanban/fetchData/fulfilled"
	TypeHydrationRejected     = "kanban/fetchData/rejected"
)

// NewTask is the payload of TaskAdded. Status is accepted for payload
// compatibility; the stored status is always the owning column's name.
type NewTask struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status,omitempty"`
	Subtasks    []domain.Subtask `json:"subtasks,omitempty"`
}

// TaskChanges is a partial task update. Nil fields are left untouched;
// Subtasks replaces the whole list when non-nil.
type TaskChanges struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Subtasks    []domain.Subtask `json:"subtasks,omitempty"`
}

// NewColumn is a column definition used by BoardCreated and ColumnCreated.
type NewColumn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccentColor string `json:"accentColor,omitempty"`
}

type BoardChanges struct {
	Name *string `json:"name,omitempty"`
}

type ColumnChanges struct {
	Name        *string `json:"name,omitempty"`
	AccentColor *string `json:"accentColor,omitempty"`
}

type TaskAdded struct {
	BoardID  string  `json:"boardId"`
	ColumnID string  `json:"columnId"`
	Task     NewTask `json:"task"`
	Index    *int    `json:"index,omitempty"`
}

type TaskUpdated struct {
	TaskID  string      `json:"taskId"`
	Changes TaskChanges `json:"changes"`
}

type TaskDeleted struct {
	TaskID string `json:"taskId"`
}

type TaskMoved struct {
	TaskID              string `json:"taskId"`
	DestinationColumnID string `json:"destinationColumnId"`
	Index               *int   `json:"index,omitempty"`
}

type SubtaskToggled struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

type BoardCreated struct {
	BoardID string      `json:"boardId"`
	Name    string      `json:"name"`
	Columns []NewColumn `json:"columns,omitempty"`
}

type BoardRemoved struct {
	BoardID string `json:"boardId"`
}

type BoardUpdated struct {
	BoardID string       `json:"boardId"`
	Changes BoardChanges `json:"changes"`
}

type ColumnCreated struct {
	BoardID string    `json:"boardId"`
	Column  NewColumn `json:"column"`
	Index   *int      `json:"index,omitempty"`
}

// ColumnRemoved deletes a column. Its tasks move to TargetColumnID when that
// is a valid sibling, else to the first remaining sibling, else are deleted.
type ColumnRemoved struct {
	BoardID        string `json:"boardId"`
	ColumnID       string `json:"columnId"`
	TargetColumnID string `json:"targetColumnId,omitempty"`
}

type ColumnUpdated struct {
	ColumnID string        `json:"columnId"`
	Changes  ColumnChanges `json:"changes"`
}

type BoardColumnsReordered struct {
	BoardID   string   `json:"boardId"`
	ColumnIDs []string `json:"columnIds"`
}

type ActiveBoardSet struct {
	BoardID string `json:"boardId"`
}

type ThemeSet struct {
	Theme domain.Theme `json:"theme"`
}

// StateReset replaces the whole store, e.g. when reseeding.
type StateReset struct {
	State *domain.State `json:"state"`
}

type HydrationPending struct {
	RequestID string `json:"requestId"`
}

type HydrationFulfilled struct {
	RequestID string          `json:"requestId"`
	Dataset   *domain.Dataset `json:"dataset"`
}

type HydrationRejected struct {
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}

func (TaskAdded) Type() string             { return TypeTaskAdded }
func (TaskUpdated) Type() string           { return TypeTaskUpdated }
func (TaskDeleted) Type() string           { return TypeTaskDeleted }
func (TaskMoved) Type() string             { return TypeTaskMoved }
func (SubtaskToggled) Type() string        { return TypeSubtaskToggled }
func (BoardCreated) Type() string          { return TypeBoardCreated }
func (BoardRemoved) Type() string          { return TypeBoardRemoved }
func (BoardUpdated) Type() string          { return TypeBoardUpdated }
func (ColumnCreated) Type() string         { return TypeColumnCreated }
func (ColumnRemoved) Type() string         { return TypeColumnRemoved }
func (ColumnUpdated) Type() string         { return TypeColumnUpdated }
func (BoardColumnsReordered) Type() string { return TypeBoardColumnsReordered }
func (ActiveBoardSet) Type() string        { return TypeActiveBoardSet }
func (ThemeSet) Type() string              { return TypeThemeSet }
func (StateReset) Type() string            { return TypeStateReset }
func (HydrationPending) Type() string      { return TypeHydrationPending }
func (HydrationFulfilled) Type() string    { return TypeHydrationFulfilled }
func (HydrationRejected) Type() string     { return TypeHydrationRejected }

func (TaskAdded) isAction()             {}
func (TaskUpdated) isAction()           {}
func (TaskDeleted) isAction()           {}
func (TaskMoved) isAction()             {}
func (SubtaskToggled) isAction()        {}
func (BoardCreated) isAction()          {}
func (BoardRemoved) isAction()          {}
func (BoardUpdated) isAction()          {}
func (ColumnCreated) isAction()         {}
func (ColumnRemoved) isAction()         {}
func (ColumnUpdated) isAction()         {}
func (BoardColumnsReordered) isAction() {}
func (ActiveBoardSet) isAction()        {}
func (ThemeSet) isAction()              {}
func (StateReset) isAction()            {}
func (HydrationPending) isAction()      {}
func (HydrationFulfilled) isAction()    {}
func (HydrationRejected) isAction()     {}

// IntPtr is a convenience for optional index fields.
func IntPtr(i int) *int { return &i }
