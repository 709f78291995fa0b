// Package statspolicy decides which slice of a course a caller may read
// when building statistics.
//
// Scoping rules:
//   - Mentors see their own cohort (enrollments whose mentor_username is theirs)
//   - Any caller that names a mentor or student explicitly sees that cohort
//   - Instructors with no explicit target see the whole course (students only)
//   - Everyone else sees nothing
//
// Plan never fails; an empty scope means "no data".
package statspolicy

import (
	"strings"

	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the shape of a Scope.
type Kind int

const (
	// None selects nothing.
	None Kind = iota
	// Mentor selects enrollments mentored by Scope.MentorUsername.
	Mentor
	// Course selects every student enrollment in the course.
	Course
)

func (k Kind) String() string {
	switch k {
	case Mentor:
		return "mentor"
	case Course:
		return "course"
	default:
		return "none"
	}
}

// Scope is the filter the analytics engine applies to submission,
// attendance and enrollment queries.
type Scope struct {
	Kind           Kind
	CourseID       primitive.ObjectID
	MentorUsername string
	// OrganizationID restricts roster queries to the caller's organization.
	OrganizationID primitive.ObjectID
}

// IsNone reports whether the scope selects no data.
func (s Scope) IsNone() bool { return s.Kind == None }

// Plan selects the scope for principal reading courseID. target is an
// optional mentor username supplied by the caller; blank means absent.
func Plan(p models.Principal, courseID primitive.ObjectID, target string) Scope {
	target = strings.TrimSpace(target)
	base := Scope{CourseID: courseID, OrganizationID: p.OrganizationID}

	// An explicit target overrides the role branch entirely.
	if target != "" {
		base.Kind = Mentor
		base.MentorUsername = target
		return base
	}

	switch p.Role {
	case models.RoleMentor:
		base.Kind = Mentor
		base.MentorUsername = p.Username
	case models.RoleInstructor:
		base.Kind = Course
	default:
		// Students without a target and unknown roles.
		base.Kind = None
	}
	return base
}

// Student returns the username whose personal statistics are read:
// the explicit target when given, otherwise the caller.
func Student(p models.Principal, target string) string {
	if t := strings.TrimSpace(target); t != "" {
		return t
	}
	return p.Username
}
