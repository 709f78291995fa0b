package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/app/system/authz"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(u *auth.SessionUser) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	if u != nil {
		req = auth.WithTestUser(req, u)
	}
	return req
}

func TestPrincipalFrom_SignedIn(t *testing.T) {
	id := primitive.NewObjectID()
	org := primitive.NewObjectID()
	req := requestAs(&auth.SessionUser{
		ID:             id.Hex(),
		Username:       "mentor1",
		Role:           "mentor",
		OrganizationID: org.Hex(),
	})

	p, ok := authz.PrincipalFrom(req)
	if !ok {
		t.Fatal("expected principal")
	}
	if p.ID != id {
		t.Errorf("ID = %v, want %v", p.ID, id)
	}
	if p.Username != "mentor1" {
		t.Errorf("Username = %q, want mentor1", p.Username)
	}
	if p.Role != models.RoleMentor {
		t.Errorf("Role = %q, want MENTOR", p.Role)
	}
	if p.OrganizationID != org {
		t.Errorf("OrganizationID = %v, want %v", p.OrganizationID, org)
	}
}

func TestPrincipalFrom_NoUser(t *testing.T) {
	if _, ok := authz.PrincipalFrom(requestAs(nil)); ok {
		t.Error("expected no principal without a session user")
	}
}

func TestPrincipalFrom_MalformedID(t *testing.T) {
	req := requestAs(&auth.SessionUser{ID: "not-an-object-id", Role: "STUDENT"})
	if _, ok := authz.PrincipalFrom(req); ok {
		t.Error("expected malformed user id to fail closed")
	}
}

func TestPrincipalFrom_UnknownRole(t *testing.T) {
	req := requestAs(&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "janitor"})
	p, ok := authz.PrincipalFrom(req)
	if !ok {
		t.Fatal("expected principal")
	}
	if p.Role.Valid() {
		t.Errorf("Role = %q, want invalid", p.Role)
	}
}

func TestRoleHelpers(t *testing.T) {
	cases := []struct {
		role                        string
		instructor, mentor, student bool
	}{
		{"INSTRUCTOR", true, false, false},
		{"mentor", false, true, false},
		{"Student", false, false, true},
		{"admin", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			req := requestAs(&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: tc.role})
			if got := authz.IsInstructor(req); got != tc.instructor {
				t.Errorf("IsInstructor = %v, want %v", got, tc.instructor)
			}
			if got := authz.IsMentor(req); got != tc.mentor {
				t.Errorf("IsMentor = %v, want %v", got, tc.mentor)
			}
			if got := authz.IsStudent(req); got != tc.student {
				t.Errorf("IsStudent = %v, want %v", got, tc.student)
			}
		})
	}
}

func TestRoleHelpers_NoUser(t *testing.T) {
	req := requestAs(nil)
	if authz.IsInstructor(req) || authz.IsMentor(req) || authz.IsStudent(req) {
		t.Error("expected all role helpers to be false without a user")
	}
}

func TestCanAccessOrg(t *testing.T) {
	org := primitive.NewObjectID()
	req := requestAs(&auth.SessionUser{
		ID:             primitive.NewObjectID().Hex(),
		Role:           "INSTRUCTOR",
		OrganizationID: org.Hex(),
	})
	if !authz.CanAccessOrg(req, org) {
		t.Error("expected access to own organization")
	}
	if authz.CanAccessOrg(req, primitive.NewObjectID()) {
		t.Error("expected no access to another organization")
	}

	noOrg := requestAs(&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "INSTRUCTOR"})
	if authz.CanAccessOrg(noOrg, primitive.NilObjectID) {
		t.Error("expected no access when user has no organization")
	}
}
