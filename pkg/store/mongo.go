package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// MongoStore keeps all users' documents in flat notes/tasks/flashcards
// collections filtered by ownerId. Subscriptions ride MongoDB change streams:
// any event on a collection triggers a whole-list refetch for the watched
// user, which keeps the snapshot-replacement contract identical to the
// Firestore backend. Lists are small, so the refetch is cheap.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{db: client.Database(dbName)}
}

func (s *MongoStore) notes() *mongo.Collection      { return s.db.Collection("notes") }
func (s *MongoStore) tasks() *mongo.Collection      { return s.db.Collection("tasks") }
func (s *MongoStore) flashcards() *mongo.Collection { return s.db.Collection("flashcards") }

// mongoUpdate converts a merge-write into $set/$currentDate operators.
func mongoUpdate(f Fields) bson.M {
	sets := bson.M{}
	current := bson.M{}
	for k, v := range f {
		if _, server := v.(serverTimestamp); server {
			current[k] = true
			continue
		}
		sets[k] = v
	}
	update := bson.M{}
	if len(sets) > 0 {
		update["$set"] = sets
	}
	if len(current) > 0 {
		update["$currentDate"] = current
	}
	return update
}

func (s *MongoStore) CreateNote(ctx context.Context, uid string, n models.Note) (string, error) {
	n.ID = uuid.NewString()
	n.OwnerID = uid
	if _, err := s.notes().InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	// createdAt/updatedAt are server-assigned, matching Firestore.
	update := mongoUpdate(Fields{"createdAt": ServerTimestamp, FieldUpdatedAt: ServerTimestamp})
	if _, err := s.notes().UpdateOne(ctx, bson.M{"_id": n.ID}, update); err != nil {
		return "", fmt.Errorf("stamp note: %w", err)
	}
	return n.ID, nil
}

func (s *MongoStore) SaveNoteFields(ctx context.Context, uid, id string, f Fields) error {
	filter := bson.M{"_id": id, "ownerId": uid}
	opts := options.Update().SetUpsert(true)
	if _, err := s.notes().UpdateOne(ctx, filter, mongoUpdate(f), opts); err != nil {
		return fmt.Errorf("save note %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) DeleteNote(ctx context.Context, uid, id string) error {
	if _, err := s.notes().DeleteOne(ctx, bson.M{"_id": id, "ownerId": uid}); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) ListNotes(ctx context.Context, uid string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: FieldUpdatedAt, Value: -1}})
	cursor, err := s.notes().Find(ctx, bson.M{"ownerId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)
	var out []models.Note
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return out, nil
}

func (s *MongoStore) WatchNotes(ctx context.Context, uid string) (<-chan []models.Note, error) {
	out := make(chan []models.Note, 1)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "notes", func(ctx context.Context, healthy func()) error {
			return watchCollection(ctx, s.notes(), healthy, func(ctx context.Context) error {
				notes, err := s.ListNotes(ctx, uid)
				if err != nil {
					return err
				}
				select {
				case out <- notes:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}()
	return out, nil
}

func (s *MongoStore) CreateTask(ctx context.Context, uid string, t models.Task) (string, error) {
	t.ID = uuid.NewString()
	t.OwnerID = uid
	if _, err := s.tasks().InsertOne(ctx, t); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	update := mongoUpdate(Fields{"createdAt": ServerTimestamp})
	if _, err := s.tasks().UpdateOne(ctx, bson.M{"_id": t.ID}, update); err != nil {
		return "", fmt.Errorf("stamp task: %w", err)
	}
	return t.ID, nil
}

func (s *MongoStore) SaveTaskFields(ctx context.Context, uid, id string, f Fields) error {
	filter := bson.M{"_id": id, "ownerId": uid}
	opts := options.Update().SetUpsert(true)
	if _, err := s.tasks().UpdateOne(ctx, filter, mongoUpdate(f), opts); err != nil {
		return fmt.Errorf("save task %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, uid, id string) error {
	if _, err := s.tasks().DeleteOne(ctx, bson.M{"_id": id, "ownerId": uid}); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) ListTasks(ctx context.Context, uid string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: FieldDue, Value: 1}})
	cursor, err := s.tasks().Find(ctx, bson.M{"ownerId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)
	var out []models.Task
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return out, nil
}

func (s *MongoStore) WatchTasks(ctx context.Context, uid string) (<-chan []models.Task, error) {
	out := make(chan []models.Task, 1)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "tasks", func(ctx context.Context, healthy func()) error {
			return watchCollection(ctx, s.tasks(), healthy, func(ctx context.Context) error {
				tasks, err := s.ListTasks(ctx, uid)
				if err != nil {
					return err
				}
				select {
				case out <- tasks:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}()
	return out, nil
}

func (s *MongoStore) AddFlashcards(ctx context.Context, uid string, cards []models.Flashcard) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(cards))
	ids := make([]string, 0, len(cards))
	for _, card := range cards {
		card.ID = uuid.NewString()
		card.OwnerID = uid
		docs = append(docs, card)
		ids = append(ids, card.ID)
	}
	if _, err := s.flashcards().InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("add flashcards: %w", err)
	}
	update := mongoUpdate(Fields{"createdAt": ServerTimestamp})
	if _, err := s.flashcards().UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update); err != nil {
		return len(cards), fmt.Errorf("stamp flashcards: %w", err)
	}
	return len(cards), nil
}

func (s *MongoStore) ListFlashcards(ctx context.Context, uid string) ([]models.Flashcard, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.flashcards().Find(ctx, bson.M{"ownerId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer cursor.Close(ctx)
	var out []models.Flashcard
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}
	return out, nil
}

func (s *MongoStore) WatchFlashcards(ctx context.Context, uid string) (<-chan []models.Flashcard, error) {
	out := make(chan []models.Flashcard, 1)
	go func() {
		defer close(out)
		watchWithBackoff(ctx, "flashcards", func(ctx context.Context, healthy func()) error {
			return watchCollection(ctx, s.flashcards(), healthy, func(ctx context.Context) error {
				cards, err := s.ListFlashcards(ctx, uid)
				if err != nil {
					return err
				}
				select {
				case out <- cards:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}()
	return out, nil
}

// watchCollection emits once up front, then once per change-stream event.
// Delete events carry no full document, so no ownerId match stage is applied;
// the refetch itself is scoped to the watched user.
func watchCollection(ctx context.Context, coll *mongo.Collection, healthy func(), emit func(context.Context) error) error {
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(ctx)

	if err := emit(ctx); err != nil {
		return err
	}
	healthy()

	for stream.Next(ctx) {
		if err := emit(ctx); err != nil {
			return err
		}
		healthy()
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return ctx.Err()
}

var _ Store = (*MongoStore)(nil)
