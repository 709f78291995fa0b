// internal/domain/models/class.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class is a single session of a course. CreatedAt is the time axis for
// attendance charts.
type Class struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	CourseID  primitive.ObjectID `bson:"course_id" json:"course_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Attendance records whether a user attended a class.
// CourseID is copied from the class so course-wide reads need no join.
type Attendance struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username string             `bson:"username" json:"username"`
	ClassID  primitive.ObjectID `bson:"class_id" json:"class_id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`
	Attended bool               `bson:"attended" json:"attended"`
}
