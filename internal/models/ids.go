package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh store identity. Both backends use ObjectID hex
// strings so ids can be validated the same way at the boundary.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed identity.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
