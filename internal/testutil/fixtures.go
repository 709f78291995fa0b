package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/learnboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateUser creates a user with the given role in orgID.
func (f *Fixtures) CreateUser(ctx context.Context, username string, role models.Role, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		Name:           username,
		Username:       username,
		UsernameCI:     text.Fold(username),
		Email:          username + "@example.com",
		Role:           role,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateCourse creates a course starting at start.
func (f *Fixtures) CreateCourse(ctx context.Context, title string, orgID primitive.ObjectID, start time.Time) models.Course {
	f.t.Helper()
	c := models.Course{
		ID:             primitive.NewObjectID(),
		Title:          title,
		StartDate:      start,
		OrganizationID: orgID,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "courses", c)
	return c
}

// Enroll enrolls u in course under mentor (empty for none).
func (f *Fixtures) Enroll(ctx context.Context, u models.User, course models.Course, mentor string) models.Enrollment {
	f.t.Helper()
	e := models.Enrollment{
		ID:             primitive.NewObjectID(),
		UserID:         u.ID,
		Username:       u.Username,
		CourseID:       course.ID,
		MentorUsername: mentor,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "enrolled_users", e)
	return e
}

// CreateAssignment creates an ASSIGNMENT attachment. maxSubmissions < 0 leaves it unset.
func (f *Fixtures) CreateAssignment(ctx context.Context, course models.Course, title string, maxSubmissions int, at time.Time) models.Attachment {
	f.t.Helper()
	a := models.Attachment{
		ID:             primitive.NewObjectID(),
		Title:          title,
		CourseID:       course.ID,
		AttachmentType: models.AttachmentAssignment,
		CreatedAt:      at,
	}
	if maxSubmissions >= 0 {
		n := maxSubmissions
		a.MaxSubmissions = &n
	}
	f.insert(ctx, "attachments", a)
	return a
}

// CreateLecture creates a LECTURE attachment.
func (f *Fixtures) CreateLecture(ctx context.Context, course models.Course, title string, at time.Time) models.Attachment {
	f.t.Helper()
	a := models.Attachment{
		ID:             primitive.NewObjectID(),
		Title:          title,
		CourseID:       course.ID,
		AttachmentType: models.AttachmentLecture,
		CreatedAt:      at,
	}
	f.insert(ctx, "attachments", a)
	return a
}

// Submit records a submission for enrollment e with the given scores.
// No scores means unreviewed.
func (f *Fixtures) Submit(ctx context.Context, e models.Enrollment, a models.Attachment, at time.Time, scores ...float64) models.Submission {
	f.t.Helper()
	s := models.Submission{
		ID:             primitive.NewObjectID(),
		EnrollmentID:   e.ID,
		AssignmentID:   a.ID,
		CourseID:       e.CourseID,
		UserID:         e.UserID,
		Username:       e.Username,
		MentorUsername: e.MentorUsername,
		Points:         []models.Point{},
		CreatedAt:      at,
	}
	for _, sc := range scores {
		s.Points = append(s.Points, models.Point{ID: primitive.NewObjectID(), Score: sc})
	}
	f.insert(ctx, "submissions", s)
	return s
}

// CreateClass creates a class in course held at at.
func (f *Fixtures) CreateClass(ctx context.Context, course models.Course, title string, at time.Time) models.Class {
	f.t.Helper()
	c := models.Class{
		ID:        primitive.NewObjectID(),
		Title:     title,
		CourseID:  course.ID,
		CreatedAt: at,
	}
	f.insert(ctx, "classes", c)
	return c
}

// MarkAttendance records u's attendance for class.
func (f *Fixtures) MarkAttendance(ctx context.Context, u models.User, class models.Class, attended bool) models.Attendance {
	f.t.Helper()
	a := models.Attendance{
		ID:       primitive.NewObjectID(),
		UserID:   u.ID,
		Username: u.Username,
		ClassID:  class.ID,
		CourseID: class.CourseID,
		Attended: attended,
	}
	f.insert(ctx, "attendance", a)
	return a
}
