package models

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var TaskStatuses = []string{TaskPending, TaskInProgress, TaskCompleted}

type Task struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title"`
	Description *string  `json:"description" bson:"description"`
	StartDate   *string  `json:"start_date" bson:"start_date"`
	DueDate     *string  `json:"due_date" bson:"due_date"`
	Priority    string   `json:"priority" bson:"priority"`
	Status      string   `json:"status" bson:"status"`
	AssignedTo  []string `json:"assigned_to" bson:"assigned_to"`
	CreatedBy   string   `json:"created_by" bson:"created_by"`
	CreatedAt   string   `json:"created_at" bson:"created_at"`
}

// IsAssigned reports whether userID is one of the task's assignees.
func (t Task) IsAssigned(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskView is a task with its assignees resolved.
type TaskView struct {
	Task
	Assignees []User `json:"assignees"`
}
