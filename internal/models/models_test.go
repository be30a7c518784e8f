package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusWorking, TaskStatusReview, TaskStatusDone, TaskStatusArchive} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TaskStatus("").Valid())
	assert.False(t, TaskStatus("Done").Valid())
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleEmployee.Valid())
	assert.True(t, RoleManager.Valid())
	assert.False(t, UserRole("admin").Valid())
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 24)
	assert.True(t, IsValidID(id))
	assert.NotEqual(t, id, NewID())

	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("123"))
	assert.False(t, IsValidID("zzzzzzzzzzzzzzzzzzzzzzzz"))
}

func TestTask_IsAssignedTo(t *testing.T) {
	id := NewID()
	task := Task{}
	assert.False(t, task.IsAssignedTo(id))

	task.AssignedTo = &id
	assert.True(t, task.IsAssignedTo(id))
	assert.False(t, task.IsAssignedTo(NewID()))
}
