package domain

// Dataset is the denormalized remote payload:
// boards → columns → tasks → subtasks, identified by position only.
type Dataset struct {
	Boards []DatasetBoard `json:"boards" yaml:"boards"`
}

type DatasetBoard struct {
	Name    string          `json:"name" yaml:"name"`
	Columns []DatasetColumn `json:"columns" yaml:"columns"`
}

type DatasetColumn struct {
	Name  string        `json:"name" yaml:"name"`
	Tasks []DatasetTask `json:"tasks" yaml:"tasks"`
}

type DatasetTask struct {
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Status      string           `json:"status" yaml:"status"`
	Subtasks    []DatasetSubtask `json:"subtasks" yaml:"subtasks"`
}

type DatasetSubtask struct {
	Title       string `json:"title" yaml:"title"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted"`
}
