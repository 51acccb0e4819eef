// Package mongodb implements domain.Database on MongoDB. Users live in the
// "users" collection with their active tokens embedded; todos reference
// their owner through the "_author" field.
package mongodb

import (
	"context"
	"fmt"

	"github.com/msomdec/todo-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultDatabase = "todo"
	usersCollection = "users"
	todosCollection = "todos"
)

// DB is a MongoDB-backed domain.Database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepository
	todos  *TodoRepository
}

// Open connects to the deployment at uri. The database name is taken from the
// URI path, falling back to "todo".
func Open(ctx context.Context, uri string) (*DB, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("parse mongodb uri: %w", err)
	}
	name := cs.Database
	if name == "" {
		name = defaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return newDB(client, name), nil
}

func newDB(client *mongo.Client, name string) *DB {
	db := client.Database(name)
	return &DB{
		client: client,
		db:     db,
		users:  &UserRepository{coll: db.Collection(usersCollection)},
		todos:  &TodoRepository{coll: db.Collection(todosCollection)},
	}
}

// Migrate ensures the indexes the repositories rely on exist.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = d.todos.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "_author", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create todos author index: %w", err)
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close() error {
	return d.client.Disconnect(context.Background())
}

func (d *DB) Users() domain.UserRepository {
	return d.users
}

func (d *DB) Todos() domain.TodoRepository {
	return d.todos
}

// objectID converts a hex id, reporting ErrNotFound for ids that cannot
// exist in a collection keyed by ObjectID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}
