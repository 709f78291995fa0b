package statsstore

import (
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionFilter selects submissions. Zero-valued fields are ignored.
type SubmissionFilter struct {
	CourseID       primitive.ObjectID
	CourseIDs      []primitive.ObjectID
	MentorUsername string
	Username       string
}

func (f SubmissionFilter) bson() bson.M {
	m := bson.M{}
	if !f.CourseID.IsZero() {
		m["course_id"] = f.CourseID
	} else if f.CourseIDs != nil {
		m["course_id"] = bson.M{"$in": f.CourseIDs}
	}
	if f.MentorUsername != "" {
		m["mentor_username"] = f.MentorUsername
	}
	if f.Username != "" {
		m["username"] = f.Username
	}
	return m
}

// EnrollmentFilter selects enrollments. Role, when set, is matched
// against the enrolled user's role.
type EnrollmentFilter struct {
	CourseID       primitive.ObjectID
	MentorUsername string
	Role           models.Role
}

func (f EnrollmentFilter) bson() bson.M {
	m := bson.M{"course_id": f.CourseID}
	if f.MentorUsername != "" {
		m["mentor_username"] = f.MentorUsername
	}
	return m
}

// AttendanceFilter selects attendance records in a course.
//
// MentorUsername keeps only records of users who have at least one
// enrollment (in any course) under that mentor.
type AttendanceFilter struct {
	CourseID       primitive.ObjectID
	Username       string
	MentorUsername string
	AttendedOnly   bool
}

// ClassFilter selects classes in a course, ordered by created_at ascending.
type ClassFilter struct {
	CourseID primitive.ObjectID
	// WithAttendance keeps only classes that have at least one attendance record.
	WithAttendance bool
}

// UserFilter selects users.
//
// With a CourseID, only users enrolled in the course match; MentorUsername
// further restricts to enrollments under that mentor.
type UserFilter struct {
	IDs            []primitive.ObjectID
	CourseID       primitive.ObjectID
	MentorUsername string
	Role           models.Role
	OrganizationID primitive.ObjectID
}
