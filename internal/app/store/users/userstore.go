package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/learnboard/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	errBadRole           = errors.New(`role must be "STUDENT"|"MENTOR"|"INSTRUCTOR"`)
	errNoUsername        = errors.New("username is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user after normalizing and validating fields.
// Accounts are normally provisioned by the sign-in service; this is used by
// seeding and tests.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return models.User{}, errNoUsername
	}
	u.UsernameCI = text.Fold(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	u.Role = models.ParseRole(string(u.Role))
	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}
