package userstore

import (
	"context"

	"github.com/dalemusser/learnboard/internal/app/system/auth"
	"github.com/dalemusser/learnboard/internal/app/system/timeouts"
	"github.com/dalemusser/learnboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher so role and organization changes
// take effect on the next request.
type Fetcher struct {
	users *mongo.Collection
}

func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser returns nil if the id is malformed, the user is gone, or the
// lookup fails.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":             1,
		"name":            1,
		"username":        1,
		"role":            1,
		"organization_id": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}

	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Username: u.Username,
		Role:     string(models.ParseRole(string(u.Role))),
	}
	if !u.OrganizationID.IsZero() {
		su.OrganizationID = u.OrganizationID.Hex()
	}
	return su
}

var _ auth.UserFetcher = (*Fetcher)(nil)
