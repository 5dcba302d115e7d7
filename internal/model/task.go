package model

// DateLayout is the storage format of due dates.
const DateLayout = "2006-01-02"

// Task represents a single assignment in the tracker.
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	DueDate   string   `json:"dueDate"` // YYYY-MM-DD or empty
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
	CreatedAt string   `json:"createdAt"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != ""
}

// Draft is user input for a new or edited task before validation.
type Draft struct {
	Title    string
	Category string
	DueDate  string
	Priority string
}

// DraftFrom prefills a draft with the mutable fields of an existing task.
func DraftFrom(t Task) Draft {
	return Draft{
		Title:    t.Title,
		Category: t.Category,
		DueDate:  t.DueDate,
		Priority: string(t.Priority),
	}
}
