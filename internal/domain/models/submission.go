// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Point is a single graded score entry on a submission.
type Point struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Score    float64            `bson:"score" json:"score"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`
}

// Submission is a student's hand-in for an assignment.
//
// NOTE:
//   - CourseID, UserID, Username and MentorUsername are denormalized from
//     the parent enrollment so role-scoped reads stay single-collection.
//   - A submission with no points is unreviewed; one or more is evaluated.
type Submission struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	EnrollmentID   primitive.ObjectID `bson:"enrolled_user_id" json:"enrolled_user_id"`
	AssignmentID   primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	CourseID       primitive.ObjectID `bson:"course_id" json:"course_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username       string             `bson:"username" json:"username"`
	MentorUsername string             `bson:"mentor_username,omitempty" json:"mentor_username,omitempty"`
	Points         []Point            `bson:"points" json:"points"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Evaluated reports whether the submission has at least one point.
func (s Submission) Evaluated() bool { return len(s.Points) > 0 }

// TotalScore sums the scores of all points on the submission.
func (s Submission) TotalScore() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Score
	}
	return total
}
