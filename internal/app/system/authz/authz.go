// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrincipalFrom converts the signed-in session user into the explicit
// principal handed to the analytics engine.
// ok is false when nobody is signed in or the session user id is malformed.
// An unparseable organization id leaves OrganizationID as NilObjectID.
func PrincipalFrom(r *http.Request) (*models.Principal, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return nil, false
	}
	p := &models.Principal{
		ID:       userID,
		Username: user.Username,
		Role:     models.ParseRole(user.Role),
	}
	if user.OrganizationID != "" {
		if oid, err := primitive.ObjectIDFromHex(user.OrganizationID); err == nil {
			p.OrganizationID = oid
		}
	}
	return p, true
}

// UserCtx returns the user's role, username, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "", "", NilObjectID, false.
func UserCtx(r *http.Request) (role models.Role, username string, userID primitive.ObjectID, ok bool) {
	p, ok := PrincipalFrom(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	return p.Role, p.Username, p.ID, true
}

// HasAnyRole reports whether the current request's user has any of the given roles.
func HasAnyRole(r *http.Request, roles ...models.Role) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == want {
			return true
		}
	}
	return false
}

// IsInstructor reports whether the current request's user is an instructor.
func IsInstructor(r *http.Request) bool { return HasAnyRole(r, models.RoleInstructor) }

// IsMentor reports whether the current request's user is a mentor.
func IsMentor(r *http.Request) bool { return HasAnyRole(r, models.RoleMentor) }

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool { return HasAnyRole(r, models.RoleStudent) }

// CanAccessOrg reports whether the current user belongs to the given organization.
func CanAccessOrg(r *http.Request, orgID primitive.ObjectID) bool {
	p, ok := PrincipalFrom(r)
	if !ok || p.OrganizationID.IsZero() {
		return false
	}
	return p.OrganizationID == orgID
}
