package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a new identifier in the store's required shape: a MongoDB
// ObjectID rendered as 24 lowercase hex characters. All backends use it so
// that ids keep the same shape regardless of DATABASE_URL.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the store's required shape.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
