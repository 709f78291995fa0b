package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/learnboard/internal/app/store/users"
	"github.com/dalemusser/learnboard/internal/app/system/indexes"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"github.com/dalemusser/learnboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:     "Alice Example",
		Username: "  Alice ",
		Email:    "Alice@Example.com",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Username != "Alice" {
		t.Errorf("Username = %q, want trimmed", created.Username)
	}
	if created.UsernameCI != "alice" {
		t.Errorf("UsernameCI = %q, want alice", created.UsernameCI)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.Role != models.RoleStudent {
		t.Errorf("Role = %q, want STUDENT", created.Role)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "x", Role: "admin"}); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := store.Create(ctx, models.User{Username: "   ", Role: models.RoleStudent}); err == nil {
		t.Error("expected error for blank username")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Username: "bob", Role: models.RoleMentor}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Username: "BOB", Role: models.RoleStudent})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Carol", models.RoleInstructor, primitive.NewObjectID())

	got, err := store.GetByUsername(ctx, "carol")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %v, want %v", got.ID, u.ID)
	}

	if _, err := store.GetByUsername(ctx, "nobody"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "dave", models.RoleStudent, primitive.NewObjectID())
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Username != "dave" {
		t.Errorf("Username = %q, want dave", got.Username)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := primitive.NewObjectID()
	u := fixtures.CreateUser(ctx, "erin", models.RoleMentor, org)
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.Username != "erin" || su.Role != "MENTOR" || su.OrganizationID != org.Hex() {
		t.Errorf("unexpected session user %+v", su)
	}

	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for unknown user")
	}
	if f.FetchUser(ctx, "bad-id") != nil {
		t.Error("expected nil for malformed id")
	}
}
