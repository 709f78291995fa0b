// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students, mentors, and instructors.
//
// NOTE:
//   - Course membership is not embedded on User.
//     Use the enrolled_users collection to discover a user's courses.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Username       string             `bson:"username" json:"username"`
	UsernameCI     string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
