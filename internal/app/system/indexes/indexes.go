// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"users", usersIndexes()},
		{"courses", coursesIndexes()},
		{"enrolled_users", enrollmentIndexes()},
		{"classes", classesIndexes()},
		{"attendance", attendanceIndexes()},
		{"attachments", attachmentIndexes()},
		{"submissions", submissionIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.models, log); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates each model, reusing an index with the same keys and
// uniqueness, and dropping and recreating one whose name or uniqueness differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Namespace may not exist yet; treat as empty.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index", fields...)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			log.Info("dropped mismatched index", append(fields, zap.String("old_name", ex.Name))...)
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wafflemongo.IsDup(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			log.Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		log.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func usersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_usernameci"),
		},
		// Mentee/mentor rosters: role + org filter, sorted by username.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "organization_id", Value: 1},
				{Key: "username_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_org_usernameci"),
		},
	}
}

func coursesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "start_date", Value: 1}},
			Options: options.Index().SetName("idx_courses_org_start"),
		},
	}
}

func enrollmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_enrolled_user_course"),
		},
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "mentor_username", Value: 1}},
			Options: options.Index().SetName("idx_enrolled_course_mentor"),
		},
		// Cross-course mentee lookup used by attendance scoping.
		{
			Keys:    bson.D{{Key: "mentor_username", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_enrolled_mentor_user"),
		},
	}
}

func classesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_classes_course_created"),
		},
	}
}

func attendanceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "attended", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetName("idx_attendance_course_attended_user"),
		},
		{
			Keys:    bson.D{{Key: "class_id", Value: 1}},
			Options: options.Index().SetName("idx_attendance_class"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "course_id", Value: 1}},
			Options: options.Index().SetName("idx_attendance_username_course"),
		},
	}
}

func attachmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "attachment_type", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_attachments_course_type_created"),
		},
	}
}

func submissionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "mentor_username", Value: 1}},
			Options: options.Index().SetName("idx_submissions_course_mentor"),
		},
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_submissions_course_username"),
		},
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}},
			Options: options.Index().SetName("idx_submissions_assignment"),
		},
	}
}
