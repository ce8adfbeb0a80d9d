package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/kanban/internal/dnd"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
	"github.com/gosuda/kanban/internal/selector"
)

type SubtaskBody struct {
	ID          string `json:"id,omitempty" maxLength:"128" doc:"Subtask ID (generated when omitted)"`
	Title       string `json:"title" minLength:"1" maxLength:"200" doc:"Subtask title"`
	IsCompleted bool   `json:"isCompleted,omitempty" doc:"Completion flag"`
}

type GetTaskInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body selector.TaskView
}

type CreateTaskInput struct {
	BoardID  string `path:"boardID" doc:"Board ID"`
	ColumnID string `path:"columnID" doc:"Column ID"`
	Body     struct {
		ID          string        `json:"id,omitempty" maxLength:"128" doc:"Task ID (generated when omitted)"`
		Title       string        `json:"title" minLength:"1" maxLength:"200" doc:"Task title"`
		Description string        `json:"description,omitempty" maxLength:"2000" doc:"Task description"`
		Subtasks    []SubtaskBody `json:"subtasks,omitempty" maxItems:"50" doc:"Checklist items"`
		Index       *int          `json:"index,omitempty" doc:"Insert position; appended when omitted or out of range"`
	}
}

type UpdateTaskInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
	Body   struct {
		Title       *string       `json:"title,omitempty" minLength:"1" maxLength:"200" doc:"Task title"`
		Description *string       `json:"description,omitempty" maxLength:"2000" doc:"Task description"`
		Status      *string       `json:"status,omitempty" doc:"Name of the column to move the task to"`
		Subtasks    []SubtaskBody `json:"subtasks,omitempty" maxItems:"50" doc:"Replaces the whole checklist"`
	}
}

type DeleteTaskInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
}

type MoveTaskInput struct {
	TaskID string `path:"taskID" doc:"Task ID"`
	Body   struct {
		ColumnID string `json:"columnId" minLength:"1" doc:"Destination column ID"`
		Index    *int   `json:"index,omitempty" doc:"Destination position; appended when omitted or out of range"`
	}
}

type ToggleSubtaskInput struct {
	TaskID    string `path:"taskID" doc:"Task ID"`
	SubtaskID string `path:"subtaskID" doc:"Subtask ID"`
}

type DragInput struct {
	Body dnd.DragEnd
}

type TaskMutationOutput struct {
	Body struct {
		Changed bool               `json:"changed"`
		Task    *selector.TaskView `json:"task,omitempty"`
	}
}

type DragOutput struct {
	Body struct {
		Changed bool               `json:"changed"`
		Move    *reducer.TaskMoved `json:"move,omitempty"`
	}
}

func toSubtasks(in []SubtaskBody) []domain.Subtask {
	if in == nil {
		return nil
	}
	out := make([]domain.Subtask, 0, len(in))
	for _, st := range in {
		out = append(out, domain.Subtask{ID: st.ID, Title: st.Title, IsCompleted: st.IsCompleted})
	}
	return out
}

func RegisterTaskRoutes(api huma.API, store StateStore) {
	taskResult := func(changed bool, taskID string) *TaskMutationOutput {
		out := &TaskMutationOutput{}
		out.Body.Changed = changed
		if tv, ok := selector.TaskDetail(store.State(), taskID); ok {
			out.Body.Task = &tv
		}
		return out
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{taskID}",
		Summary:     "Get a task with its status options",
		Tags:        []string{"Tasks"},
	}, func(_ context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		tv, ok := selector.TaskDetail(store.State(), input.TaskID)
		if !ok {
			return nil, huma.Error404NotFound("task not found")
		}
		return &GetTaskOutput{Body: tv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/columns/{columnID}/tasks",
		Summary:     "Add a task to a column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*TaskMutationOutput, error) {
		taskID := idOrNew(input.Body.ID)
		res, err := apply(ctx, store, reducer.TaskAdded{
			BoardID:  input.BoardID,
			ColumnID: input.ColumnID,
			Task: reducer.NewTask{
				ID:          taskID,
				Title:       input.Body.Title,
				Description: input.Body.Description,
				Subtasks:    toSubtasks(input.Body.Subtasks),
			},
			Index: input.Body.Index,
		})
		if err != nil {
			return nil, err
		}
		return taskResult(res.Changed, taskID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{taskID}",
		Summary:     "Edit a task; a new status moves it to that column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*TaskMutationOutput, error) {
		task, ok := store.State().Tasks[input.TaskID]
		if !ok {
			return taskResult(false, input.TaskID), nil
		}

		var anyChanged bool
		if input.Body.Status != nil && *input.Body.Status != task.Status {
			dest, ok := columnNamed(store.State(), task.BoardID, *input.Body.Status)
			if !ok {
				return nil, huma.Error422UnprocessableEntity("status must name a column on the task's board")
			}
			res, err := apply(ctx, store, reducer.TaskMoved{TaskID: task.ID, DestinationColumnID: dest.ID})
			if err != nil {
				return nil, err
			}
			anyChanged = res.Changed
		}

		changes := reducer.TaskChanges{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Subtasks:    toSubtasks(input.Body.Subtasks),
		}
		if changes.Title != nil || changes.Description != nil || changes.Subtasks != nil {
			res, err := apply(ctx, store, reducer.TaskUpdated{TaskID: task.ID, Changes: changes})
			if err != nil {
				return nil, err
			}
			anyChanged = anyChanged || res.Changed
		}
		return taskResult(anyChanged, task.ID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{taskID}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*ChangedOutput, error) {
		res, err := apply(ctx, store, reducer.TaskDeleted{TaskID: input.TaskID})
		if err != nil {
			return nil, err
		}
		return changed(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{taskID}/move",
		Summary:     "Move a task to a column position",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*TaskMutationOutput, error) {
		res, err := apply(ctx, store, reducer.TaskMoved{
			TaskID:              input.TaskID,
			DestinationColumnID: input.Body.ColumnID,
			Index:               input.Body.Index,
		})
		if err != nil {
			return nil, err
		}
		return taskResult(res.Changed, input.TaskID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-subtask",
		Method:      http.MethodPost,
		Path:        "/tasks/{taskID}/subtasks/{subtaskID}/toggle",
		Summary:     "Flip a subtask's completion flag",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ToggleSubtaskInput) (*TaskMutationOutput, error) {
		res, err := apply(ctx, store, reducer.SubtaskToggled{TaskID: input.TaskID, SubtaskID: input.SubtaskID})
		if err != nil {
			return nil, err
		}
		return taskResult(res.Changed, input.TaskID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "drop-task",
		Method:      http.MethodPost,
		Path:        "/drag",
		Summary:     "Apply a drag-and-drop gesture",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DragInput) (*DragOutput, error) {
		out := &DragOutput{}
		move, ok := input.Body.Resolve(store.State())
		if !ok {
			return out, nil
		}
		res, err := apply(ctx, store, move)
		if err != nil {
			return nil, err
		}
		out.Body.Changed = res.Changed
		out.Body.Move = &move
		return out, nil
	})
}
