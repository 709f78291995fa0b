package analytics

import (
	"context"

	statsstore "github.com/dalemusser/learnboard/internal/app/store/stats"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the read surface the engine needs. statsstore.Store is the
// production implementation.
type Store interface {
	FindSubmissions(ctx context.Context, f statsstore.SubmissionFilter) ([]models.Submission, error)
	CountEnrollments(ctx context.Context, f statsstore.EnrollmentFilter) (int64, error)
	FindAttendance(ctx context.Context, f statsstore.AttendanceFilter) ([]models.Attendance, error)
	FindClasses(ctx context.Context, f statsstore.ClassFilter) ([]models.Class, error)
	FindAssignments(ctx context.Context, courseID primitive.ObjectID) ([]models.Attachment, error)
	FindUsers(ctx context.Context, f statsstore.UserFilter) ([]models.User, error)
	FindEnrolledCourses(ctx context.Context, userID primitive.ObjectID) ([]models.Course, error)
}

var _ Store = (*statsstore.Store)(nil)
