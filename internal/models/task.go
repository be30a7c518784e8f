package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusWorking TaskStatus = "working"
	TaskStatusReview  TaskStatus = "review"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusArchive TaskStatus = "archive"
)

// Valid reports whether s is one of the five task states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusWorking, TaskStatusReview, TaskStatusDone, TaskStatusArchive:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"primarykey;type:varchar(24)" bson:"_id" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Description string     `gorm:"type:text;not null" bson:"description" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" bson:"status" json:"status"`
	AssignedTo  *string    `gorm:"type:varchar(24)" bson:"assignedTo" json:"assignedTo"`
	IsDeleted   bool       `gorm:"not null;default:false" bson:"isDeleted" json:"isDeleted"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`

	// Relations
	Assignee *User `gorm:"foreignKey:AssignedTo" bson:"-" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// IsAssignedTo reports whether the task currently references userID.
func (t Task) IsAssignedTo(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
