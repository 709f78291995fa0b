// internal/domain/models/attachment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachmentType classifies course resources.
type AttachmentType string

const (
	AttachmentAssignment AttachmentType = "ASSIGNMENT"
	AttachmentLecture    AttachmentType = "LECTURE"
	AttachmentOther      AttachmentType = "OTHER"
)

// Attachment is a course resource. When AttachmentType is ASSIGNMENT it is
// a gradable assignment and MaxSubmissions is the expected submission count
// per enrollment (nil counts as zero).
type Attachment struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	Title          string              `bson:"title" json:"title"`
	CourseID       primitive.ObjectID  `bson:"course_id" json:"course_id"`
	ClassID        *primitive.ObjectID `bson:"class_id,omitempty" json:"class_id,omitempty"`
	AttachmentType AttachmentType      `bson:"attachment_type" json:"attachment_type"`
	MaxSubmissions *int                `bson:"max_submissions,omitempty" json:"max_submissions,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}
