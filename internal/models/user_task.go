package models

import "time"

// UserTask is one member of a user's task set. The composite key gives the
// set semantics: a task id appears at most once per user.
type UserTask struct {
	UserID    string    `gorm:"primarykey;type:varchar(24)" json:"user_id"`
	TaskID    string    `gorm:"primarykey;type:varchar(24)" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserTask) TableName() string {
	return "user_tasks"
}
