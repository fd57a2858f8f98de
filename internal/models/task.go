package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the enumerated values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the enumerated values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is permanently removed on delete; there is no soft-delete column.
// CreatorID and CreatedAt are set once at creation and never change.
type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	AssigneeID  uint64       `gorm:"not null" json:"assigneeId"`
	CreatorID   uint64       `gorm:"not null" json:"creatorId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Assignee User `gorm:"foreignKey:AssigneeID" json:"-"`
	Creator  User `gorm:"foreignKey:CreatorID" json:"-"`
}
