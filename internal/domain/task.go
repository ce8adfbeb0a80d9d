package domain

// Task is a work item. Status always mirrors the name of the column
// referenced by ColumnID; BoardID and ColumnID are back-references.
type Task struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"boardId"`
	ColumnID    string    `json:"columnId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Subtasks    []Subtask `json:"subtasks"`
}

// Subtask is a checklist line owned inline by its task.
type Subtask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// CompletedSubtasks counts the subtasks marked complete.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.IsCompleted {
			n++
		}
	}
	return n
}

// CloneSubtasks returns an independent copy of a subtask slice. A nil input
// yields an empty, non-nil slice so serialized tasks always carry an array.
func CloneSubtasks(in []Subtask) []Subtask {
	out := make([]Subtask, len(in))
	copy(out, in)
	return out
}
