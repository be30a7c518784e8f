package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/repository"
	"github.com/codermanagement/task-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type notification struct {
	kind   string
	userID string
	taskID string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) TaskAssigned(userID string, task *models.Task) {
	n.record("assigned", userID, task)
}

func (n *recordingNotifier) TaskUnassigned(userID string, task *models.Task) {
	n.record("unassigned", userID, task)
}

func (n *recordingNotifier) record(kind, userID string, task *models.Task) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{kind: kind, userID: userID, taskID: task.ID})
}

type stubDrafter struct {
	tasks []GeneratedTask
	err   error
}

func (d *stubDrafter) DraftTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	return d.tasks, d.err
}

type ServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    repository.Store
	notifier *recordingNotifier
	tasks    *TaskService
	users    *UserService
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = repository.NewGormStore(testutil.NewInMemoryDB(suite.T()))
	suite.notifier = &recordingNotifier{}
	suite.tasks = NewTaskService(suite.store, nil, suite.notifier)
	suite.users = NewUserService(suite.store)
}

func (suite *ServiceTestSuite) createUser(name string, role models.UserRole) *models.User {
	user, err := suite.users.CreateUser(suite.ctx, CreateUserInput{Name: name, Role: role})
	suite.Require().NoError(err)
	return user
}

func (suite *ServiceTestSuite) createTask(name string) *models.Task {
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: name, Description: "details"})
	suite.Require().NoError(err)
	return task
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func roleP(r models.UserRole) *models.UserRole { return &r }

func (suite *ServiceTestSuite) TestEndToEndScenario() {
	alice := suite.createUser("Alice", models.RoleManager)
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		Name:        "Write spec",
		Description: "first draft",
		Status:      models.TaskStatusPending,
	})
	suite.Require().NoError(err)

	updated, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: &alice.ID})
	suite.Require().NoError(err)
	assert.True(suite.T(), updated.IsAssignedTo(alice.ID))
	suite.Require().NotNil(updated.Assignee)
	assert.Equal(suite.T(), "Alice", updated.Assignee.Name)

	user, err := suite.users.GetUser(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{task.ID}, user.TaskIDs)

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Status: statusPtr(models.TaskStatusDone)})
	suite.Require().NoError(err)

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Status: statusPtr(models.TaskStatusWorking)})
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)

	archived, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Status: statusPtr(models.TaskStatusArchive)})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusArchive, archived.Status)

	deleted, err := suite.tasks.DeleteTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), deleted.IsDeleted)

	list, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), total)
	assert.Empty(suite.T(), list)

	_, err = suite.tasks.GetTask(suite.ctx, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	user, err = suite.users.GetUser(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(user.Tasks, 1)
	assert.Equal(suite.T(), task.ID, user.Tasks[0].ID)
	assert.True(suite.T(), user.Tasks[0].IsDeleted)
}

func (suite *ServiceTestSuite) TestCreateTask_Validation() {
	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "  ", Description: "d"})
	var verr *ValidationError
	suite.Require().True(errors.As(err, &verr))
	assert.Equal(suite.T(), "name", verr.Field)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "n", Description: ""})
	suite.Require().True(errors.As(err, &verr))
	assert.Equal(suite.T(), "description", verr.Field)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "n", Description: "d", Status: "blocked"})
	suite.Require().True(errors.As(err, &verr))
	assert.Equal(suite.T(), "status", verr.Field)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "n", Description: "d", AssignedTo: strPtr("nope")})
	suite.Require().True(errors.As(err, &verr))
	assert.Equal(suite.T(), "assignedTo", verr.Field)
}

func (suite *ServiceTestSuite) TestCreateTask_DefaultsAndTrims() {
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "  Write spec ", Description: " d "})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Write spec", task.Name)
	assert.Equal(suite.T(), "d", task.Description)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.False(suite.T(), task.IsDeleted)
}

func (suite *ServiceTestSuite) TestCreateTask_RejectsNameOfVisibleTask() {
	suite.createTask("Write spec")

	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "Write spec", Description: "again"})
	assert.ErrorIs(suite.T(), err, ErrTaskNameTaken)
}

func (suite *ServiceTestSuite) TestCreateTask_ReusesNameOfDeletedTask() {
	first := suite.createTask("Write spec")
	_, err := suite.tasks.DeleteTask(suite.ctx, first.ID)
	suite.Require().NoError(err)

	second, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{Name: "Write spec", Description: "again"})
	suite.Require().NoError(err)
	assert.NotEqual(suite.T(), first.ID, second.ID)
}

func (suite *ServiceTestSuite) TestCreateTask_WithAssignee() {
	alice := suite.createUser("Alice", models.RoleEmployee)

	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		Name:        "Write spec",
		Description: "d",
		AssignedTo:  &alice.ID,
	})
	suite.Require().NoError(err)
	assert.True(suite.T(), task.IsAssignedTo(alice.ID))

	tasks, err := suite.users.ListUserTasks(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), task.ID, tasks[0].ID)

	assert.Equal(suite.T(), []notification{{kind: "assigned", userID: alice.ID, taskID: task.ID}}, suite.notifier.events)
}

func (suite *ServiceTestSuite) TestCreateTask_UnknownAssigneeCreatesNothing() {
	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		Name:        "Write spec",
		Description: "d",
		AssignedTo:  strPtr(models.NewID()),
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)

	_, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), total)
}

func (suite *ServiceTestSuite) TestUpdateTask_ReassignNotifiesBothUsers() {
	alice := suite.createUser("Alice", models.RoleEmployee)
	bob := suite.createUser("Bob", models.RoleEmployee)
	task := suite.createTask("Write spec")

	_, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: &alice.ID})
	suite.Require().NoError(err)
	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: &bob.ID})
	suite.Require().NoError(err)
	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: &bob.ID})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), []notification{
		{kind: "assigned", userID: alice.ID, taskID: task.ID},
		{kind: "unassigned", userID: alice.ID, taskID: task.ID},
		{kind: "assigned", userID: bob.ID, taskID: task.ID},
	}, suite.notifier.events)

	aliceTasks, err := suite.users.ListUserTasks(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), aliceTasks)

	bobTasks, err := suite.users.ListUserTasks(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), bobTasks, 1)
}

func (suite *ServiceTestSuite) TestUpdateTask_UnassignWithoutAssignee() {
	task := suite.createTask("Write spec")

	updated, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Unassign: true})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), updated.AssignedTo)
	assert.Empty(suite.T(), suite.notifier.events)
}

func (suite *ServiceTestSuite) TestUpdateTask_Errors() {
	task := suite.createTask("Write spec")

	_, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{})
	var verr *ValidationError
	assert.True(suite.T(), errors.As(err, &verr))

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Name: strPtr(" ")})
	assert.True(suite.T(), errors.As(err, &verr))

	_, err = suite.tasks.UpdateTask(suite.ctx, models.NewID(), UpdateTaskInput{Name: strPtr("x")})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: strPtr(models.NewID())})
	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)

	_, err = suite.tasks.DeleteTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Name: strPtr("x")})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
	_, err = suite.tasks.DeleteTask(suite.ctx, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestListTasks_Filters() {
	suite.createTask("Write spec")
	time.Sleep(5 * time.Millisecond)
	suite.createTask("Review SPEC")
	suite.createTask("Deploy")

	tasks, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{Name: "spec"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), total)
	suite.Require().Len(tasks, 2)
	assert.Equal(suite.T(), "Review SPEC", tasks[0].Name)

	_, _, err = suite.tasks.ListTasks(suite.ctx, ListTasksInput{Status: statusPtr("blocked")})
	var verr *ValidationError
	assert.True(suite.T(), errors.As(err, &verr))
}

func (suite *ServiceTestSuite) TestCreateUser() {
	user := suite.createUser(" Alice ", "")
	assert.Equal(suite.T(), "Alice", user.Name)
	assert.Equal(suite.T(), models.RoleEmployee, user.Role)
	assert.Equal(suite.T(), []string{}, user.TaskIDs)

	_, err := suite.users.CreateUser(suite.ctx, CreateUserInput{Name: "Alice"})
	assert.ErrorIs(suite.T(), err, ErrUserNameTaken)

	_, err = suite.users.DeleteUser(suite.ctx, user.ID)
	suite.Require().NoError(err)
	_, err = suite.users.CreateUser(suite.ctx, CreateUserInput{Name: "Alice"})
	assert.ErrorIs(suite.T(), err, ErrUserNameTaken)

	_, err = suite.users.CreateUser(suite.ctx, CreateUserInput{Name: "Bob", Role: "admin"})
	var verr *ValidationError
	assert.True(suite.T(), errors.As(err, &verr))
}

func (suite *ServiceTestSuite) TestUpdateUser() {
	alice := suite.createUser("Alice", models.RoleEmployee)
	suite.createUser("Bob", models.RoleEmployee)

	_, err := suite.users.UpdateUser(suite.ctx, alice.ID, UpdateUserInput{})
	var verr *ValidationError
	assert.True(suite.T(), errors.As(err, &verr))

	_, err = suite.users.UpdateUser(suite.ctx, alice.ID, UpdateUserInput{Name: strPtr("Bob")})
	assert.ErrorIs(suite.T(), err, ErrUserNameTaken)

	updated, err := suite.users.UpdateUser(suite.ctx, alice.ID, UpdateUserInput{Name: strPtr("Alice"), Role: roleP(models.RoleManager)})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleManager, updated.Role)

	_, err = suite.users.UpdateUser(suite.ctx, models.NewID(), UpdateUserInput{Role: roleP(models.RoleManager)})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestDeletedUser_HiddenAndUnassignable() {
	alice := suite.createUser("Alice", models.RoleEmployee)
	suite.createUser("Bob", models.RoleEmployee)
	task := suite.createTask("Write spec")

	_, err := suite.users.DeleteUser(suite.ctx, alice.ID)
	suite.Require().NoError(err)

	_, err = suite.users.GetUser(suite.ctx, alice.ID)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)

	users, total, err := suite.users.ListUsers(suite.ctx, ListUsersInput{})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Equal(suite.T(), "Bob", users[0].Name)

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{AssignedTo: &alice.ID})
	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

func (suite *ServiceTestSuite) TestGenerateTasks() {
	_, err := suite.tasks.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "anything"})
	assert.ErrorIs(suite.T(), err, ErrAIServiceNotConfigured)

	drafter := &stubDrafter{tasks: []GeneratedTask{
		{Name: " Write spec ", Description: "first draft"},
		{Name: "Write spec", Description: "duplicate"},
		{Name: "", Description: "nameless"},
		{Name: "Review", Description: " "},
		{Name: "Deploy", Description: "ship it"},
	}}
	svc := NewTaskService(suite.store, drafter, nil)

	_, err = svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "  "})
	var verr *ValidationError
	assert.True(suite.T(), errors.As(err, &verr))

	drafts, err := svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "write and deploy the spec"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []GeneratedTask{
		{Name: "Write spec", Description: "first draft"},
		{Name: "Deploy", Description: "ship it"},
	}, drafts)

	drafter.tasks = []GeneratedTask{{Name: "", Description: ""}}
	_, err = svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "noise"})
	assert.ErrorIs(suite.T(), err, ErrAINoValidTasks)

	drafter.tasks = nil
	_, err = svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "noise"})
	assert.ErrorIs(suite.T(), err, ErrAINoTasksGenerated)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestParseGeneratedTasks(t *testing.T) {
	tasks, err := parseGeneratedTasks("```json\n[{\"name\":\"Write spec\",\"description\":\"draft\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, []GeneratedTask{{Name: "Write spec", Description: "draft"}}, tasks)

	_, err = parseGeneratedTasks("not json")
	assert.Error(t, err)
}
