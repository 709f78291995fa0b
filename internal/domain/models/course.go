// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a unit of instruction offered inside an organization.
type Course struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Title          string             `bson:"title" json:"title"`
	StartDate      time.Time          `bson:"start_date" json:"start_date"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
