// internal/domain/models/principal.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal identifies the caller of an analytics operation.
// It is resolved from the session once per request and passed explicitly.
type Principal struct {
	ID             primitive.ObjectID
	Username       string
	Role           Role
	OrganizationID primitive.ObjectID
}
