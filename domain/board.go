package domain

import "strings"

// Column is one status lane of the board.
type Column struct {
	Status TaskStatus `json:"status"`
	Title  string     `json:"title"`
	Tasks  []Task     `json:"tasks"`
}

var columnTitles = map[TaskStatus]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusAtRisk:     "Waiting on Other Team(s)",
	StatusCompleted:  "Completed",
}

// ColumnTitle returns the display title of a status lane.
func ColumnTitle(s TaskStatus) string {
	return columnTitles[s]
}

type BoardStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

type TagUsage struct {
	Tag
	Tasks int `json:"tasks"`
}

// Board is the rendered view of a workspace's active tasks.
type Board struct {
	WorkspaceID string     `json:"workspaceId"`
	Columns     []Column   `json:"columns"`
	Tags        []TagUsage `json:"tags"`
	Stats       BoardStats `json:"stats"`
}

// TaskQuery narrows the tasks shown on a board.
type TaskQuery struct {
	Search string
	TagIDs []string
}

func (q TaskQuery) Empty() bool {
	return strings.TrimSpace(q.Search) == "" && len(q.TagIDs) == 0
}

// Match reports whether t passes the search text and tag filters.
func (q TaskQuery) Match(t *Task) bool {
	if len(q.TagIDs) > 0 && !t.HasTag(q.TagIDs...) {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), search) ||
		strings.Contains(strings.ToLower(t.Description), search)
}

// Filter returns the tasks matching q, preserving order.
func (q TaskQuery) Filter(tasks []Task) []Task {
	if q.Empty() {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if q.Match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// BuildBoard groups tasks into status columns sorted by priority. Stats and
// tag counts are computed over all tasks; columns only hold those matching q.
func BuildBoard(workspaceID string, tasks []Task, tags []Tag, q TaskQuery, today Date) *Board {
	board := &Board{
		WorkspaceID: workspaceID,
		Columns:     make([]Column, 0, len(TaskStatuses)),
		Tags:        make([]TagUsage, 0, len(tags)),
	}

	counts := make(map[string]int, len(tags))
	for i := range tasks {
		t := &tasks[i]
		board.Stats.Total++
		if t.IsCompleted() {
			board.Stats.Completed++
		}
		if t.IsOverdue(today) {
			board.Stats.Overdue++
		}
		for _, tag := range t.Tags {
			counts[tag.ID]++
		}
	}
	for _, tag := range tags {
		board.Tags = append(board.Tags, TagUsage{Tag: tag, Tasks: counts[tag.ID]})
	}

	visible := q.Filter(tasks)
	for _, status := range TaskStatuses {
		col := Column{Status: status, Title: ColumnTitle(status), Tasks: []Task{}}
		for _, t := range visible {
			if t.Status == status {
				col.Tasks = append(col.Tasks, t)
			}
		}
		SortByPriority(col.Tasks)
		board.Columns = append(board.Columns, col)
	}
	return board
}
