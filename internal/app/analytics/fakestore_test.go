package analytics_test

import (
	"context"
	"sort"
	"time"

	statsstore "github.com/dalemusser/learnboard/internal/app/store/stats"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory analytics.Store with the same filter
// semantics as statsstore.Store.
type fakeStore struct {
	users       []models.User
	courses     []models.Course
	enrollments []models.Enrollment
	classes     []models.Class
	attendance  []models.Attendance
	attachments []models.Attachment
	submissions []models.Submission

	err   error
	calls int
}

func (f *fakeStore) FindSubmissions(_ context.Context, q statsstore.SubmissionFilter) ([]models.Submission, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Submission
	for _, s := range f.submissions {
		if !q.CourseID.IsZero() && s.CourseID != q.CourseID {
			continue
		}
		if q.CourseID.IsZero() && q.CourseIDs != nil && !containsID(q.CourseIDs, s.CourseID) {
			continue
		}
		if q.MentorUsername != "" && s.MentorUsername != q.MentorUsername {
			continue
		}
		if q.Username != "" && s.Username != q.Username {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) CountEnrollments(_ context.Context, q statsstore.EnrollmentFilter) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, e := range f.enrollments {
		if e.CourseID != q.CourseID {
			continue
		}
		if q.MentorUsername != "" && e.MentorUsername != q.MentorUsername {
			continue
		}
		if q.Role != "" {
			u, ok := f.user(e.UserID)
			if !ok || u.Role != q.Role {
				continue
			}
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) FindAttendance(_ context.Context, q statsstore.AttendanceFilter) ([]models.Attendance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Attendance
	for _, a := range f.attendance {
		if a.CourseID != q.CourseID {
			continue
		}
		if q.AttendedOnly && !a.Attended {
			continue
		}
		if q.Username != "" && a.Username != q.Username {
			continue
		}
		if q.MentorUsername != "" && !f.mentoredBy(a.UserID, q.MentorUsername) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) FindClasses(_ context.Context, q statsstore.ClassFilter) ([]models.Class, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Class
	for _, c := range f.classes {
		if c.CourseID != q.CourseID {
			continue
		}
		if q.WithAttendance && !f.hasAttendance(c.ID) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindAssignments(_ context.Context, courseID primitive.ObjectID) ([]models.Attachment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Attachment
	for _, a := range f.attachments {
		if a.CourseID == courseID && a.AttachmentType == models.AttachmentAssignment {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindUsers(_ context.Context, q statsstore.UserFilter) ([]models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.users {
		if q.IDs != nil && !containsID(q.IDs, u.ID) {
			continue
		}
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if !q.OrganizationID.IsZero() && u.OrganizationID != q.OrganizationID {
			continue
		}
		if !q.CourseID.IsZero() && !f.enrolled(u.ID, q.CourseID, q.MentorUsername) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) FindEnrolledCourses(_ context.Context, userID primitive.ObjectID) ([]models.Course, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Course{}
	for _, c := range f.courses {
		if f.enrolled(userID, c.ID, "") {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) user(id primitive.ObjectID) (models.User, bool) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (f *fakeStore) enrolled(userID, courseID primitive.ObjectID, mentor string) bool {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID && (mentor == "" || e.MentorUsername == mentor) {
			return true
		}
	}
	return false
}

func (f *fakeStore) mentoredBy(userID primitive.ObjectID, mentor string) bool {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.MentorUsername == mentor {
			return true
		}
	}
	return false
}

func (f *fakeStore) hasAttendance(classID primitive.ObjectID) bool {
	for _, a := range f.attendance {
		if a.ClassID == classID {
			return true
		}
	}
	return false
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

/*─────────────────────────────────────────────────────────────────────────────*
| Builders                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	orgID = primitive.NewObjectID()
	day0  = time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
)

func (f *fakeStore) addUser(username string, role models.Role) models.User {
	u := models.User{
		ID:             primitive.NewObjectID(),
		Name:           username,
		Username:       username,
		Role:           role,
		OrganizationID: orgID,
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeStore) addCourse(title string) models.Course {
	c := models.Course{ID: primitive.NewObjectID(), Title: title, StartDate: day0, OrganizationID: orgID}
	f.courses = append(f.courses, c)
	return c
}

func (f *fakeStore) enroll(u models.User, c models.Course, mentor string) models.Enrollment {
	e := models.Enrollment{
		ID:             primitive.NewObjectID(),
		UserID:         u.ID,
		Username:       u.Username,
		CourseID:       c.ID,
		MentorUsername: mentor,
	}
	f.enrollments = append(f.enrollments, e)
	return e
}

func (f *fakeStore) addAssignment(c models.Course, title string, max int, at time.Time) models.Attachment {
	a := models.Attachment{
		ID:             primitive.NewObjectID(),
		Title:          title,
		CourseID:       c.ID,
		AttachmentType: models.AttachmentAssignment,
		MaxSubmissions: &max,
		CreatedAt:      at,
	}
	f.attachments = append(f.attachments, a)
	return a
}

func (f *fakeStore) submit(e models.Enrollment, a models.Attachment, scores ...float64) models.Submission {
	s := models.Submission{
		ID:             primitive.NewObjectID(),
		EnrollmentID:   e.ID,
		AssignmentID:   a.ID,
		CourseID:       e.CourseID,
		UserID:         e.UserID,
		Username:       e.Username,
		MentorUsername: e.MentorUsername,
		Points:         []models.Point{},
	}
	for _, sc := range scores {
		s.Points = append(s.Points, models.Point{ID: primitive.NewObjectID(), Score: sc})
	}
	f.submissions = append(f.submissions, s)
	return s
}

func (f *fakeStore) addClass(c models.Course, at time.Time) models.Class {
	cl := models.Class{ID: primitive.NewObjectID(), Title: at.Format("Jan 2"), CourseID: c.ID, CreatedAt: at}
	f.classes = append(f.classes, cl)
	return cl
}

func (f *fakeStore) mark(u models.User, cl models.Class, attended bool) {
	f.attendance = append(f.attendance, models.Attendance{
		ID:       primitive.NewObjectID(),
		UserID:   u.ID,
		Username: u.Username,
		ClassID:  cl.ID,
		CourseID: cl.CourseID,
		Attended: attended,
	})
}

func principalOf(u models.User) *models.Principal {
	return &models.Principal{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}
}
