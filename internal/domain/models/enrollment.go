// internal/domain/models/enrollment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment is the authoritative join between users and courses.
// Exactly one document per (user_id, course_id). MentorUsername is empty
// when the enrollment has no mentor.
type Enrollment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username       string             `bson:"username" json:"username"`
	CourseID       primitive.ObjectID `bson:"course_id" json:"course_id"`
	MentorUsername string             `bson:"mentor_username,omitempty" json:"mentor_username,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
