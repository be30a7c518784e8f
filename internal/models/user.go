package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleManager  UserRole = "manager"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

type User struct {
	ID        string    `gorm:"primarykey;type:varchar(24)" bson:"_id" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'employee'" bson:"role" json:"role"`
	IsDeleted bool      `gorm:"not null;default:false" bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// TaskIDs is the back-reference set. The relational backend keeps it in
	// the user_tasks table; the document backend stores it inline.
	TaskIDs []string `gorm:"-" bson:"tasks" json:"tasks"`

	// Tasks holds TaskIDs resolved to records when a caller asked for them.
	Tasks []Task `gorm:"-" bson:"-" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
