package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quiz-platform/internal/models"
)

// MongoStore implements Store over three MongoDB collections. Quizzes are
// keyed by name, users by id, and progress is one document per user+quiz pair.
type MongoStore struct {
	client   *mongo.Client
	quizzes  *mongo.Collection
	users    *mongo.Collection
	progress *mongo.Collection
}

func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string) (*MongoStore, error) {
	db := client.Database(dbName)
	ms := &MongoStore{
		client:   client,
		quizzes:  db.Collection("quizzes"),
		users:    db.Collection("users"),
		progress: db.Collection("progress"),
	}
	if err := ms.seedAdmin(ctx); err != nil {
		return nil, err
	}
	return ms, nil
}

// seedAdmin mirrors the file store's default users document: the admin
// account exists after first access, without overwriting an existing one.
func (ms *MongoStore) seedAdmin(ctx context.Context) error {
	admin := models.User{ID: "admin", Password: "adminpassword", Role: models.RoleAdmin}
	_, err := ms.users.UpdateOne(ctx,
		bson.M{"_id": admin.ID},
		bson.M{"$setOnInsert": admin},
		options.Update().SetUpsert(true),
	)
	return err
}

// --- Catalog ---

func (ms *MongoStore) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	cur, err := ms.quizzes.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}

func (ms *MongoStore) GetQuiz(ctx context.Context, name string) (models.Quiz, error) {
	var quiz models.Quiz
	err := ms.quizzes.FindOne(ctx, bson.M{"_id": name}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return models.Quiz{}, ErrNotFound
	}
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (ms *MongoStore) PutQuiz(ctx context.Context, quiz models.Quiz) error {
	_, err := ms.quizzes.ReplaceOne(ctx,
		bson.M{"_id": quiz.Name},
		quiz,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (ms *MongoStore) DeleteQuiz(ctx context.Context, name string) error {
	res, err := ms.quizzes.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

func (ms *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := ms.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, cur.Err()
}

func (ms *MongoStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := ms.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (ms *MongoStore) CreateUser(ctx context.Context, user models.User) error {
	_, err := ms.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// --- Progress ---

func (ms *MongoStore) GetProgress(ctx context.Context, userID, quizName string) (models.ProgressEntry, error) {
	var entry models.ProgressEntry
	err := ms.progress.FindOne(ctx, bson.M{"user_id": userID, "quiz_name": quizName}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return models.ProgressEntry{}, ErrNotFound
	}
	if err != nil {
		return models.ProgressEntry{}, err
	}
	return entry, nil
}

func (ms *MongoStore) ListProgressForUser(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	cur, err := ms.progress.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]models.ProgressEntry{}
	for cur.Next(ctx) {
		var entry models.ProgressEntry
		if err := cur.Decode(&entry); err != nil {
			return nil, err
		}
		out[entry.QuizName] = entry
	}
	return out, cur.Err()
}

func (ms *MongoStore) ListAllProgress(ctx context.Context) (map[string]map[string]models.ProgressEntry, error) {
	cur, err := ms.progress.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]map[string]models.ProgressEntry{}
	for cur.Next(ctx) {
		var entry models.ProgressEntry
		if err := cur.Decode(&entry); err != nil {
			return nil, err
		}
		if out[entry.UserID] == nil {
			out[entry.UserID] = map[string]models.ProgressEntry{}
		}
		out[entry.UserID][entry.QuizName] = entry
	}
	return out, cur.Err()
}

func (ms *MongoStore) UpsertProgress(ctx context.Context, entry models.ProgressEntry) error {
	_, err := ms.progress.ReplaceOne(ctx,
		bson.M{"user_id": entry.UserID, "quiz_name": entry.QuizName},
		entry,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (ms *MongoStore) DeleteProgressForQuiz(ctx context.Context, quizName string) error {
	_, err := ms.progress.DeleteMany(ctx, bson.M{"quiz_name": quizName})
	return err
}

func (ms *MongoStore) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}
