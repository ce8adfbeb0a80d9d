package ws

import "github.com/gosuda/kanban/internal/dispatch"

// BoardEvent represents one action applied to the store.
type BoardEvent struct {
	Type    string `json:"type"` // action type, e.g. "taskMoved"
	Version uint64 `json:"version"`
	Changed bool   `json:"changed"`
}

func EventFromResult(res dispatch.Result) BoardEvent {
	ev := BoardEvent{Version: res.Version, Changed: res.Changed}
	if res.Action != nil {
		ev.Type = res.Action.Type()
	}
	return ev
}
