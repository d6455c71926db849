package task

import "time"

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "Pendente"
	StatusCompleted Status = "Concluido"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle flips Pendente and Concluido. Unknown values become Concluido.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single to-do item.
type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      Status    `gorm:"size:20;not null;default:'Pendente';index:idx_tasks_status" json:"status"`
	CreatedAt   time.Time `gorm:"not null;index:idx_tasks_created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for Task.
func (Task) TableName() string {
	return "tasks"
}
