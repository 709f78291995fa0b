// Package analytics turns course data into dashboard view models: chart
// series, rosters, per-student progress and attendance heatmaps, and the
// leaderboard.
//
// Every operation takes the calling principal explicitly and derives its
// data scope from it through statspolicy. Query errors never escape as Go
// errors; they come back as a Failure inside the Result.
package analytics

import (
	"context"

	"github.com/dalemusser/learnboard/internal/app/policy/statspolicy"
	statsstore "github.com/dalemusser/learnboard/internal/app/store/stats"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Query carries the per-call inputs of a statistics operation.
type Query struct {
	CourseID primitive.ObjectID
	// MentorUsername narrows cohort operations to one mentor's mentees.
	MentorUsername string
	// StudentUsername selects the student for progress and heatmap reads.
	StudentUsername string
	// MenteesCount is the cohort size used for line chart absentees.
	MenteesCount int
}

// Engine runs statistics operations against a Store.
type Engine struct {
	store Store
	log   *zap.Logger
}

// New constructs an Engine.
func New(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, log: logger}
}

func fail[T any](e *Engine, op, msg string, q Query, err error) Result[T] {
	e.log.Warn("statistics query failed",
		zap.String("op", op),
		zap.String("course_id", q.CourseID.Hex()),
		zap.Error(err))
	return Fail[T](msg, err)
}

// Pie returns [evaluated, unreviewed, notSubmitted] for the caller's scope.
func (e *Engine) Pie(ctx context.Context, p *models.Principal, q Query) Result[PieData] {
	if p == nil {
		return failWith[PieData](Unauthorized)
	}
	const msg = "Failed to fetch piechart data"
	scope := statspolicy.Plan(*p, q.CourseID, q.MentorUsername)

	var (
		subs    []models.Submission
		mentees int64
		err     error
	)
	switch scope.Kind {
	case statspolicy.Mentor:
		subs, err = e.store.FindSubmissions(ctx, statsstore.SubmissionFilter{
			CourseID:       q.CourseID,
			MentorUsername: scope.MentorUsername,
		})
		if err != nil {
			return fail[PieData](e, "pie", msg, q, err)
		}
		mentees, err = e.store.CountEnrollments(ctx, statsstore.EnrollmentFilter{
			CourseID:       q.CourseID,
			MentorUsername: scope.MentorUsername,
		})
	case statspolicy.Course:
		subs, err = e.store.FindSubmissions(ctx, statsstore.SubmissionFilter{CourseID: q.CourseID})
		if err != nil {
			return fail[PieData](e, "pie", msg, q, err)
		}
		mentees, err = e.store.CountEnrollments(ctx, statsstore.EnrollmentFilter{
			CourseID: q.CourseID,
			Role:     models.RoleStudent,
		})
	case statspolicy.None:
	}
	if err != nil {
		return fail[PieData](e, "pie", msg, q, err)
	}

	assignments, err := e.store.FindAssignments(ctx, q.CourseID)
	if err != nil {
		return fail[PieData](e, "pie", msg, q, err)
	}
	return Ok(BuildPie(subs, int64(len(assignments)), mentees))
}

// Line returns one attendance point per class of the course.
func (e *Engine) Line(ctx context.Context, p *models.Principal, q Query) Result[[]LinePoint] {
	if p == nil {
		return failWith[[]LinePoint](Unauthorized)
	}
	const msg = "Failed to fetch linechart data"
	scope := statspolicy.Plan(*p, q.CourseID, q.MentorUsername)

	var (
		attended []models.Attendance
		err      error
	)
	switch scope.Kind {
	case statspolicy.Mentor:
		attended, err = e.store.FindAttendance(ctx, statsstore.AttendanceFilter{
			CourseID:       q.CourseID,
			MentorUsername: scope.MentorUsername,
			AttendedOnly:   true,
		})
	case statspolicy.Course:
		attended, err = e.store.FindAttendance(ctx, statsstore.AttendanceFilter{
			CourseID:     q.CourseID,
			AttendedOnly: true,
		})
	case statspolicy.None:
	}
	if err != nil {
		return fail[[]LinePoint](e, "line", msg, q, err)
	}

	classes, err := e.store.FindClasses(ctx, statsstore.ClassFilter{CourseID: q.CourseID})
	if err != nil {
		return fail[[]LinePoint](e, "line", msg, q, err)
	}
	return Ok(BuildLine(classes, attended, q.MenteesCount))
}

// Bar returns per-assignment submission counts for the caller's scope.
func (e *Engine) Bar(ctx context.Context, p *models.Principal, q Query) Result[[]BarPoint] {
	if p == nil {
		return failWith[[]BarPoint](Unauthorized)
	}
	const msg = "Failed to fetch barchart data"
	scope := statspolicy.Plan(*p, q.CourseID, q.MentorUsername)

	var filter statsstore.SubmissionFilter
	switch scope.Kind {
	case statspolicy.Mentor:
		filter = statsstore.SubmissionFilter{CourseID: q.CourseID, MentorUsername: scope.MentorUsername}
	case statspolicy.Course:
		filter = statsstore.SubmissionFilter{CourseID: q.CourseID}
	case statspolicy.None:
		return Ok([]BarPoint{})
	}

	assignments, err := e.store.FindAssignments(ctx, q.CourseID)
	if err != nil {
		return fail[[]BarPoint](e, "bar", msg, q, err)
	}
	subs, err := e.store.FindSubmissions(ctx, filter)
	if err != nil {
		return fail[[]BarPoint](e, "bar", msg, q, err)
	}
	return Ok(BuildBar(assignments, subs))
}

// Mentees lists the students enrolled in the course within the caller's
// organization, narrowed to one mentor's cohort when the scope is a mentor.
// A caller without an organization gets an empty list.
func (e *Engine) Mentees(ctx context.Context, p *models.Principal, q Query) Result[[]models.User] {
	if p == nil {
		return failWith[[]models.User](Unauthorized)
	}
	// Rosters are per organization; a caller outside any organization
	// matches no one.
	if p.OrganizationID.IsZero() {
		return Ok([]models.User{})
	}
	scope := statspolicy.Plan(*p, q.CourseID, q.MentorUsername)

	filter := statsstore.UserFilter{
		CourseID:       q.CourseID,
		Role:           models.RoleStudent,
		OrganizationID: scope.OrganizationID,
	}
	switch scope.Kind {
	case statspolicy.Mentor:
		filter.MentorUsername = scope.MentorUsername
	case statspolicy.Course:
	case statspolicy.None:
		return Ok([]models.User{})
	}

	users, err := e.store.FindUsers(ctx, filter)
	if err != nil {
		return fail[[]models.User](e, "mentees", "Failed to fetch mentees", q, err)
	}
	return Ok(nonNil(users))
}

// Mentors lists the mentors enrolled in the course within the caller's
// organization.
func (e *Engine) Mentors(ctx context.Context, p *models.Principal, q Query) Result[[]models.User] {
	if p == nil {
		return failWith[[]models.User](Unauthorized)
	}
	if p.OrganizationID.IsZero() {
		return Ok([]models.User{})
	}
	users, err := e.store.FindUsers(ctx, statsstore.UserFilter{
		CourseID:       q.CourseID,
		Role:           models.RoleMentor,
		OrganizationID: p.OrganizationID,
	})
	if err != nil {
		return fail[[]models.User](e, "mentors", "Failed to fetch mentors", q, err)
	}
	return Ok(nonNil(users))
}

// StudentProgress summarizes one student's submissions in the course.
func (e *Engine) StudentProgress(ctx context.Context, p *models.Principal, q Query) Result[StudentProgress] {
	if p == nil {
		return failWith[StudentProgress](Unauthorized)
	}
	const msg = "Failed to fetch student progress"
	username := statspolicy.Student(*p, q.StudentUsername)

	subs, err := e.store.FindSubmissions(ctx, statsstore.SubmissionFilter{
		CourseID: q.CourseID,
		Username: username,
	})
	if err != nil {
		return fail[StudentProgress](e, "student_progress", msg, q, err)
	}
	assignments, err := e.store.FindAssignments(ctx, q.CourseID)
	if err != nil {
		return fail[StudentProgress](e, "student_progress", msg, q, err)
	}
	return Ok(BuildProgress(subs, ExpectedSubmissions(assignments)))
}

// StudentHeatmap returns the course's class days alongside the days the
// student attended.
func (e *Engine) StudentHeatmap(ctx context.Context, p *models.Principal, q Query) Result[Heatmap] {
	if p == nil {
		return failWith[Heatmap](Unauthorized)
	}
	const msg = "Failed to fetch heatmap data"
	username := statspolicy.Student(*p, q.StudentUsername)

	attended, err := e.store.FindAttendance(ctx, statsstore.AttendanceFilter{
		CourseID:     q.CourseID,
		Username:     username,
		AttendedOnly: true,
	})
	if err != nil {
		return fail[Heatmap](e, "student_heatmap", msg, q, err)
	}
	classes, err := e.store.FindClasses(ctx, statsstore.ClassFilter{
		CourseID:       q.CourseID,
		WithAttendance: true,
	})
	if err != nil {
		return fail[Heatmap](e, "student_heatmap", msg, q, err)
	}
	return Ok(BuildHeatmap(classes, attended))
}

// EnrolledCourses lists the courses the caller is enrolled in, earliest
// start first.
func (e *Engine) EnrolledCourses(ctx context.Context, p *models.Principal) Result[[]models.Course] {
	if p == nil {
		return failWith[[]models.Course](Unauthorized)
	}
	courses, err := e.store.FindEnrolledCourses(ctx, p.ID)
	if err != nil {
		e.log.Warn("statistics query failed",
			zap.String("op", "enrolled_courses"),
			zap.String("user_id", p.ID.Hex()),
			zap.Error(err))
		return Fail[[]models.Course]("Failed to fetch courses", err)
	}
	return Ok(nonNil(courses))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
