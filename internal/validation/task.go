package validation

import (
	"fmt"

	"github.com/fastygo/taskboard/domain"
)

type CreateTaskInput struct {
	Text        string `json:"text"`
	Description string `json:"description"`
}

// SubtaskInput accepts the legacy boolean Completed flag when Status is absent.
type SubtaskInput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Status    string `json:"status"`
	Completed *bool  `json:"completed"`
}

type NoteInput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// UpdateTaskInput replaces every mutable field of a task at once.
type UpdateTaskInput struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	DueDate     *string        `json:"dueDate"`
	Priority    string         `json:"priority"`
	TagIDs      []string       `json:"tagIds"`
	Subtasks    []SubtaskInput `json:"subtasks"`
	Notes       []NoteInput    `json:"notes"`
}

type UpdateTaskStatusInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// IDInput carries a single entity id (delete, restore).
type IDInput struct {
	ID string `json:"id"`
}

type AddNoteInput struct {
	TaskID string `json:"taskId"`
	Text   string `json:"text"`
}

type DeleteNoteInput struct {
	TaskID string `json:"taskId"`
	NoteID string `json:"noteId"`
}

type ToggleSubtaskInput struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

// TaskUpdate is the validated form of UpdateTaskInput.
type TaskUpdate struct {
	ID          string
	Description string
	DueDate     *domain.Date
	Priority    domain.Priority
	TagIDs      []string
	Subtasks    []domain.Subtask
	Notes       []domain.Note
}

func CreateTask(in CreateTaskInput) (CreateTaskInput, error) {
	text, err := requiredText("text", in.Text, MaxTaskText,
		"Task title is required", fmt.Sprintf("Task title must be at most %d characters", MaxTaskText))
	if err != nil {
		return in, err
	}
	desc, err := optionalText("description", in.Description, MaxDescription,
		fmt.Sprintf("Description must be at most %d characters", MaxDescription))
	if err != nil {
		return in, err
	}
	return CreateTaskInput{Text: text, Description: desc}, nil
}

func UpdateTask(in UpdateTaskInput) (TaskUpdate, error) {
	var out TaskUpdate
	if err := checkID("id", in.ID, "Invalid task ID"); err != nil {
		return out, err
	}
	out.ID = in.ID

	desc, err := optionalText("description", in.Description, MaxDescription,
		fmt.Sprintf("Description must be at most %d characters", MaxDescription))
	if err != nil {
		return out, err
	}
	out.Description = desc

	if in.DueDate != nil && *in.DueDate != "" {
		due, err := domain.ParseDate(*in.DueDate)
		if err != nil {
			return out, domain.NewValidationError("dueDate", "Due date must be a valid date (YYYY-MM-DD)")
		}
		out.DueDate = &due
	}

	priority := domain.Priority(in.Priority)
	if !priority.Valid() {
		return out, domain.NewValidationError("priority", "Priority must be one of high, medium, low")
	}
	out.Priority = priority

	out.TagIDs = make([]string, 0, len(in.TagIDs))
	seen := make(map[string]struct{}, len(in.TagIDs))
	for i, id := range in.TagIDs {
		if err := checkID(fmt.Sprintf("tagIds[%d]", i), id, "Invalid tag ID"); err != nil {
			return out, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.TagIDs = append(out.TagIDs, id)
	}

	out.Subtasks = make([]domain.Subtask, 0, len(in.Subtasks))
	for i, s := range in.Subtasks {
		sub, err := subtask(i, s)
		if err != nil {
			return out, err
		}
		out.Subtasks = append(out.Subtasks, sub)
	}

	out.Notes = make([]domain.Note, 0, len(in.Notes))
	for i, n := range in.Notes {
		note, err := note(i, n)
		if err != nil {
			return out, err
		}
		out.Notes = append(out.Notes, note)
	}
	return out, nil
}

func subtask(i int, in SubtaskInput) (domain.Subtask, error) {
	field := fmt.Sprintf("subtasks[%d]", i)
	if err := checkLocalID(field+".id", in.ID); err != nil {
		return domain.Subtask{}, err
	}
	text, err := requiredText(field+".text", in.Text, MaxSubtaskText,
		"Subtask text is required", fmt.Sprintf("Subtask text must be at most %d characters", MaxSubtaskText))
	if err != nil {
		return domain.Subtask{}, err
	}

	status := domain.SubtaskStatus(in.Status)
	switch {
	case in.Status == "" && in.Completed != nil && *in.Completed:
		status = domain.SubtaskCompleted
	case in.Status == "":
		status = domain.SubtaskPending
	case !status.Valid():
		return domain.Subtask{}, domain.NewValidationError(field+".status", "Subtask status must be one of pending, in-progress, completed")
	}
	return domain.Subtask{ID: in.ID, Text: text, Status: status}, nil
}

func note(i int, in NoteInput) (domain.Note, error) {
	field := fmt.Sprintf("notes[%d]", i)
	if err := checkLocalID(field+".id", in.ID); err != nil {
		return domain.Note{}, err
	}
	text, err := requiredText(field+".text", in.Text, MaxNoteText,
		"Note cannot be empty", fmt.Sprintf("Note must be at most %d characters", MaxNoteText))
	if err != nil {
		return domain.Note{}, err
	}
	createdAt, err := parseTimestamp(in.CreatedAt)
	if err != nil {
		return domain.Note{}, domain.NewValidationError(field+".createdAt", "Note timestamp is invalid")
	}
	return domain.Note{ID: in.ID, Text: text, CreatedAt: createdAt}, nil
}

func UpdateTaskStatus(in UpdateTaskStatusInput) (UpdateTaskStatusInput, error) {
	if err := checkID("id", in.ID, "Invalid task ID"); err != nil {
		return in, err
	}
	if !domain.TaskStatus(in.Status).Valid() {
		return in, domain.NewValidationError("status", "Status must be one of not-started, in-progress, at-risk, completed")
	}
	return in, nil
}

func TaskID(in IDInput) (IDInput, error) {
	return in, checkID("id", in.ID, "Invalid task ID")
}

func AddNote(in AddNoteInput) (AddNoteInput, error) {
	if err := checkID("taskId", in.TaskID, "Invalid task ID"); err != nil {
		return in, err
	}
	text, err := requiredText("text", in.Text, MaxNoteText,
		"Note cannot be empty", fmt.Sprintf("Note must be at most %d characters", MaxNoteText))
	if err != nil {
		return in, err
	}
	in.Text = text
	return in, nil
}

func DeleteNote(in DeleteNoteInput) (DeleteNoteInput, error) {
	if err := checkID("taskId", in.TaskID, "Invalid task ID"); err != nil {
		return in, err
	}
	return in, checkLocalID("noteId", in.NoteID)
}

func ToggleSubtask(in ToggleSubtaskInput) (ToggleSubtaskInput, error) {
	if err := checkID("taskId", in.TaskID, "Invalid task ID"); err != nil {
		return in, err
	}
	return in, checkLocalID("subtaskId", in.SubtaskID)
}
