// Package statsstore implements the read-side queries behind course
// statistics on top of MongoDB.
package statsstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMissingCourse is returned when a course-scoped query has no course id.
var ErrMissingCourse = errors.New("course id is required")

type Store struct {
	users       *mongo.Collection
	courses     *mongo.Collection
	enrollments *mongo.Collection
	classes     *mongo.Collection
	attendance  *mongo.Collection
	attachments *mongo.Collection
	submissions *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:       db.Collection("users"),
		courses:     db.Collection("courses"),
		enrollments: db.Collection("enrolled_users"),
		classes:     db.Collection("classes"),
		attendance:  db.Collection("attendance"),
		attachments: db.Collection("attachments"),
		submissions: db.Collection("submissions"),
	}
}

var byCreatedAsc = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// FindSubmissions returns submissions matching f in insertion order.
func (s *Store) FindSubmissions(ctx context.Context, f SubmissionFilter) ([]models.Submission, error) {
	opts := options.Find().SetSort(byCreatedAsc)
	cur, err := s.submissions.Find(ctx, f.bson(), opts)
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return out, nil
}

// CountEnrollments counts enrollments matching f. When f.Role is set the
// enrolled user is joined in and matched on role.
func (s *Store) CountEnrollments(ctx context.Context, f EnrollmentFilter) (int64, error) {
	if f.CourseID.IsZero() {
		return 0, ErrMissingCourse
	}
	if f.Role == "" {
		n, err := s.enrollments.CountDocuments(ctx, f.bson())
		if err != nil {
			return 0, fmt.Errorf("count enrollments: %w", err)
		}
		return n, nil
	}

	pipeline := []bson.M{
		{"$match": f.bson()},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": "$user"},
		{"$match": bson.M{"user.role": f.Role}},
		{"$count": "count"},
	}
	cur, err := s.enrollments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate enrollment count: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode enrollment count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// FindAttendance returns attendance records in f.CourseID.
func (s *Store) FindAttendance(ctx context.Context, f AttendanceFilter) ([]models.Attendance, error) {
	if f.CourseID.IsZero() {
		return nil, ErrMissingCourse
	}
	filter := bson.M{"course_id": f.CourseID}
	if f.AttendedOnly {
		filter["attended"] = true
	}
	if f.Username != "" {
		filter["username"] = f.Username
	}
	if f.MentorUsername != "" {
		ids, err := s.enrollments.Distinct(ctx, "user_id", bson.M{"mentor_username": f.MentorUsername})
		if err != nil {
			return nil, fmt.Errorf("distinct mentee ids: %w", err)
		}
		filter["user_id"] = bson.M{"$in": ids}
	}

	cur, err := s.attendance.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Attendance
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return out, nil
}

// FindClasses returns classes in f.CourseID ordered by created_at ascending.
func (s *Store) FindClasses(ctx context.Context, f ClassFilter) ([]models.Class, error) {
	if f.CourseID.IsZero() {
		return nil, ErrMissingCourse
	}
	filter := bson.M{"course_id": f.CourseID}
	if f.WithAttendance {
		ids, err := s.attendance.Distinct(ctx, "class_id", bson.M{"course_id": f.CourseID})
		if err != nil {
			return nil, fmt.Errorf("distinct attended class ids: %w", err)
		}
		filter["_id"] = bson.M{"$in": ids}
	}

	cur, err := s.classes.Find(ctx, filter, options.Find().SetSort(byCreatedAsc))
	if err != nil {
		return nil, fmt.Errorf("find classes: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Class
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return out, nil
}

// FindAssignments returns the ASSIGNMENT attachments of a course ordered by
// created_at ascending.
func (s *Store) FindAssignments(ctx context.Context, courseID primitive.ObjectID) ([]models.Attachment, error) {
	if courseID.IsZero() {
		return nil, ErrMissingCourse
	}
	filter := bson.M{
		"course_id":       courseID,
		"attachment_type": models.AttachmentAssignment,
	}
	cur, err := s.attachments.Find(ctx, filter, options.Find().SetSort(byCreatedAsc))
	if err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Attachment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return out, nil
}

// FindUsers returns users matching f ordered by username.
func (s *Store) FindUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.IDs != nil {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if !f.OrganizationID.IsZero() {
		filter["organization_id"] = f.OrganizationID
	}
	if !f.CourseID.IsZero() {
		em := bson.M{"course_id": f.CourseID}
		if f.MentorUsername != "" {
			em["mentor_username"] = f.MentorUsername
		}
		ids, err := s.enrollments.Distinct(ctx, "user_id", em)
		if err != nil {
			return nil, fmt.Errorf("distinct enrolled user ids: %w", err)
		}
		if f.IDs != nil {
			filter["$and"] = bson.A{bson.M{"_id": bson.M{"$in": ids}}}
		} else {
			filter["_id"] = bson.M{"$in": ids}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "username_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

// FindEnrolledCourses returns the courses userID is enrolled in, ordered by
// start date.
func (s *Store) FindEnrolledCourses(ctx context.Context, userID primitive.ObjectID) ([]models.Course, error) {
	ids, err := s.enrollments.Distinct(ctx, "course_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("distinct enrolled course ids: %w", err)
	}
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.courses.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return out, nil
}
