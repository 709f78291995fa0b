package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID             string
	Name           string
	Username       string
	Role           models.Role
	OrganizationID string
}

// InstructorUser returns a TestUser with instructor role in orgID.
func InstructorUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Instructor",
		Username:       "instructor",
		Role:           models.RoleInstructor,
		OrganizationID: orgID.Hex(),
	}
}

// MentorUser returns a TestUser with mentor role in orgID.
func MentorUser(orgID primitive.ObjectID, username string) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Mentor",
		Username:       username,
		Role:           models.RoleMentor,
		OrganizationID: orgID.Hex(),
	}
}

// StudentUser returns a TestUser with student role in orgID.
func StudentUser(orgID primitive.ObjectID, username string) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		Name:           "Test Student",
		Username:       username,
		Role:           models.RoleStudent,
		OrganizationID: orgID.Hex(),
	}
}

// FromModel builds a TestUser for an existing user document.
func FromModel(u models.User) TestUser {
	return TestUser{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Username:       u.Username,
		Role:           u.Role,
		OrganizationID: u.OrganizationID.Hex(),
	}
}

// WithUser adds a user to the request context, bypassing the session cookie.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
