package repository

import (
	"context"

	"github.com/codermanagement/task-tracker/internal/database"
	"github.com/codermanagement/task-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
// The task set is the "tasks" array on the user document.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a new UserRepository over db
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{users: db.Collection(database.CollectionUsers)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.Role == "" {
		user.Role = models.RoleEmployee
	}
	// $addToSet fails on a null field, so the set always starts as an array.
	if user.TaskIDs == nil {
		user.TaskIDs = []string{}
	}
	now := mongoNow()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.users.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string, vis Visibility) (*models.User, error) {
	return r.findOne(ctx, visibleFilter(bson.M{"_id": id}, vis))
}

func (r *MongoUserRepository) FindByName(ctx context.Context, name string, vis Visibility) (*models.User, error) {
	return r.findOne(ctx, visibleFilter(bson.M{"name": name}, vis))
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	if user.TaskIDs == nil {
		user.TaskIDs = []string{}
	}
	return &user, nil
}

func (r *MongoUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := visibleFilter(bson.M{}, OnlyVisible)
	if filter.Name != "" {
		query["name"] = containsRegex(filter.Name)
	}
	if filter.Role != nil {
		query["role"] = *filter.Role
	}

	total, err := r.users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Pagination != nil {
		opts.SetSkip(int64(filter.Pagination.Offset)).SetLimit(int64(filter.Pagination.Limit))
	}

	cursor, err := r.users.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	for i := range users {
		if users[i].TaskIDs == nil {
			users[i].TaskIDs = []string{}
		}
	}
	return users, total, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id string, patch UserPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	set := bson.M{"updatedAt": mongoNow()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MongoUserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": mongoNow()}})
}

// AddTask returns ErrNotFound when the user document does not exist.
func (r *MongoUserRepository) AddTask(ctx context.Context, userID, taskID string) error {
	return r.update(ctx, userID, bson.M{
		"$addToSet": bson.M{"tasks": taskID},
		"$set":      bson.M{"updatedAt": mongoNow()},
	})
}

func (r *MongoUserRepository) PullTask(ctx context.Context, userID, taskID string) error {
	_, err := r.users.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"tasks": taskID},
		"$set":  bson.M{"updatedAt": mongoNow()},
	})
	return err
}

func (r *MongoUserRepository) update(ctx context.Context, id string, update bson.M) error {
	result, err := r.users.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
