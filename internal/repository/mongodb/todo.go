package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/todo-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type todoDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Text        string             `bson:"text"`
	Completed   bool               `bson:"completed"`
	CompletedAt *int64             `bson:"completedAt"`
	Author      primitive.ObjectID `bson:"_author"`
}

func (d *todoDoc) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		OwnerID:     d.Author.Hex(),
	}
}

// TodoRepository implements domain.TodoRepository on a MongoDB collection.
// Every lookup filters on both _id and _author.
type TodoRepository struct {
	coll *mongo.Collection
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	author, err := primitive.ObjectIDFromHex(todo.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", todo.OwnerID, err)
	}
	doc := todoDoc{
		ID:          primitive.NewObjectID(),
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
		Author:      author,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	todo.ID = doc.ID.Hex()
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}
	return decodeTodo(r.coll.FindOne(ctx, filter))
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	author, err := objectID(ownerID)
	if err != nil {
		return []domain.Todo{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_author": author}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cur.Close(ctx)

	todos := []domain.Todo{}
	for cur.Next(ctx) {
		var doc todoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode todo: %w", err)
		}
		todos = append(todos, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID string, update domain.TodoUpdate) (*domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"completed":   update.Completed,
		"completedAt": update.CompletedAt,
	}
	if update.Text != nil {
		set["text"] = *update.Text
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeTodo(r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts))
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}
	return decodeTodo(r.coll.FindOneAndDelete(ctx, filter))
}

func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	author, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "_author": author}, nil
}

func decodeTodo(res *mongo.SingleResult) (*domain.Todo, error) {
	var doc todoDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("decode todo: %w", err)
	}
	return doc.toDomain(), nil
}
