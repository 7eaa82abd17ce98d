package domain

import (
	"sort"
	"time"
)

// TaskStatus drives the board column a task is placed in.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusAtRisk     TaskStatus = "at-risk"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in board column order.
var TaskStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusAtRisk, StatusCompleted}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Priority orders tasks inside a column.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Rank returns the sort position of p, or -1 for an unknown value.
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}

// SubtaskStatus tracks completion of a single checklist item.
type SubtaskStatus string

const (
	SubtaskPending    SubtaskStatus = "pending"
	SubtaskInProgress SubtaskStatus = "in-progress"
	SubtaskCompleted  SubtaskStatus = "completed"
)

func (s SubtaskStatus) Valid() bool {
	switch s {
	case SubtaskPending, SubtaskInProgress, SubtaskCompleted:
		return true
	}
	return false
}

type Subtask struct {
	ID     string        `json:"id"`
	Text   string        `json:"text"`
	Status SubtaskStatus `json:"status"`
}

// Done is a display projection of Status; it is never stored.
func (s Subtask) Done() bool {
	return s.Status == SubtaskCompleted
}

// Toggle flips the subtask between completed and pending.
func (s Subtask) Toggle() Subtask {
	if s.Done() {
		s.Status = SubtaskPending
	} else {
		s.Status = SubtaskCompleted
	}
	return s
}

// Note is append-only; notes are deleted but never edited.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is one unit of work on a workspace board. TagIDs is the stored reference
// list; Tags is the read model filled by the query service.
type Task struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspaceId"`
	UserID      string     `json:"userId"`
	Text        string     `json:"text"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *Date      `json:"dueDate"`
	TagIDs      []string   `json:"-"`
	Tags        []Tag      `json:"tags"`
	Subtasks    []Subtask  `json:"subtasks"`
	Notes       []Note     `json:"notes"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask returns a task in its initial state.
func NewTask(workspaceID, userID, text, description string) *Task {
	return &Task{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Text:        text,
		Description: description,
		Status:      StatusNotStarted,
		Priority:    PriorityMedium,
		TagIDs:      []string{},
		Tags:        []Tag{},
		Subtasks:    []Subtask{},
		Notes:       []Note{},
	}
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsOverdue reports whether the due date lies strictly before today and the
// task is still open.
func (t *Task) IsOverdue(today Date) bool {
	if t == nil || t.DueDate == nil || t.IsCompleted() {
		return false
	}
	return t.DueDate.Before(today)
}

// HasTag reports whether any of ids is among the task's resolved tags.
func (t *Task) HasTag(ids ...string) bool {
	for _, tag := range t.Tags {
		for _, id := range ids {
			if tag.ID == id {
				return true
			}
		}
	}
	return false
}

// SortByPriority orders tasks high, medium, low while keeping the relative
// order of equal priorities.
func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return rankOrMedium(tasks[i].Priority) < rankOrMedium(tasks[j].Priority)
	})
}

func rankOrMedium(p Priority) int {
	if r := p.Rank(); r >= 0 {
		return r
	}
	return PriorityMedium.Rank()
}
