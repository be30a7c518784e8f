package repository

import (
	"context"
	"errors"

	"github.com/codermanagement/task-tracker/internal/database"
	"github.com/codermanagement/task-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	tasks *mongo.Collection
	users *mongo.Collection
}

// NewMongoTaskRepository creates a new TaskRepository over db
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{
		tasks: db.Collection(database.CollectionTasks),
		users: db.Collection(database.CollectionUsers),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "updatedAt", Value: -1}}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	now := mongoNow()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.tasks.InsertOne(ctx, task)
	return err
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string, vis Visibility) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, visibleFilter(bson.M{"_id": id}, vis)).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}

	if task.AssignedTo != nil {
		var assignee models.User
		err := r.users.FindOne(ctx, bson.M{"_id": *task.AssignedTo}).Decode(&assignee)
		switch {
		case err == nil:
			task.Assignee = &assignee
		case !errors.Is(err, mongo.ErrNoDocuments):
			return nil, err
		}
	}

	return &task, nil
}

func (r *MongoTaskRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	opts := options.Find().SetSort(newestFirst)
	cursor, err := r.tasks.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *MongoTaskRepository) FindByName(ctx context.Context, name string, vis Visibility) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, visibleFilter(bson.M{"name": name}, vis)).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := visibleFilter(bson.M{}, OnlyVisible)
	if filter.Name != "" {
		query["name"] = containsRegex(filter.Name)
	}
	if filter.Description != "" {
		query["description"] = containsRegex(filter.Description)
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	total, err := r.tasks.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(newestFirst)
	if filter.Pagination != nil {
		opts.SetSkip(int64(filter.Pagination.Offset)).SetLimit(int64(filter.Pagination.Limit))
	}

	cursor, err := r.tasks.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *MongoTaskRepository) Patch(ctx context.Context, id string, patch TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	set := bson.M{"updatedAt": mongoNow()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.ClearAssignee {
		set["assignedTo"] = nil
	} else if patch.AssignedTo != nil {
		set["assignedTo"] = *patch.AssignedTo
	}

	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MongoTaskRepository) SoftDelete(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": mongoNow()}})
}

func (r *MongoTaskRepository) update(ctx context.Context, id string, update bson.M) error {
	result, err := r.tasks.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
