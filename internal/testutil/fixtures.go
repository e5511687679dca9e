// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts well-formed documents directly into collections so store
// tests can arrange state without going through the operations under test.
type Fixtures struct {
	t  *testing.T
	DB *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, DB: db}
}

// CreateMember inserts an approved member with the given name parts and
// student id. Privacy defaults apply.
func (f *Fixtures) CreateMember(ctx context.Context, lastName, firstName, studentID string) models.Member {
	f.t.Helper()
	now := time.Now().UTC()
	approved := now
	m := models.Member{
		ID:           primitive.NewObjectID(),
		LastName:     lastName,
		FirstName:    firstName,
		StudentID:    studentID,
		Privacy:      models.DefaultPrivacy(),
		Status:       models.StatusApproved,
		RegisteredAt: now,
		ApprovedAt:   &approved,
	}
	m.FullNameCI = text.Fold(m.FullName())
	if _, err := f.DB.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("CreateMember: %v", err)
	}
	return m
}

// CreatePendingMember inserts a member still awaiting approval.
func (f *Fixtures) CreatePendingMember(ctx context.Context, lastName, firstName, studentID string) models.Member {
	f.t.Helper()
	m := models.Member{
		ID:           primitive.NewObjectID(),
		LastName:     lastName,
		FirstName:    firstName,
		StudentID:    studentID,
		Privacy:      models.DefaultPrivacy(),
		Status:       models.StatusPending,
		RegisteredAt: time.Now().UTC(),
	}
	m.FullNameCI = text.Fold(m.FullName())
	if _, err := f.DB.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("CreatePendingMember: %v", err)
	}
	return m
}

// CreateEvent inserts a public event whose deadline is a day from now and
// whose form schema is the given fields (may be nil).
func (f *Fixtures) CreateEvent(ctx context.Context, name string, schema []models.FormField) models.Event {
	f.t.Helper()
	now := time.Now().UTC()
	e := models.Event{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Date:       now.Add(7 * 24 * time.Hour),
		Visibility: models.VisibilityPublic,
		TargetYear: "2026",
		Deadline:   now.Add(24 * time.Hour),
		FormSchema: schema,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.DB.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

// CreateExpiredEvent inserts an event whose deadline has already passed.
func (f *Fixtures) CreateExpiredEvent(ctx context.Context, name string) models.Event {
	f.t.Helper()
	now := time.Now().UTC()
	e := models.Event{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Date:       now.Add(24 * time.Hour),
		Visibility: models.VisibilityPublic,
		TargetYear: "2026",
		Deadline:   now.Add(-time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.DB.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("CreateExpiredEvent: %v", err)
	}
	return e
}

// CreateParticipation inserts an active participation record directly.
func (f *Fixtures) CreateParticipation(ctx context.Context, eventID, userID primitive.ObjectID, answers map[string]models.Answer) models.Participation {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Participation{
		ID:          primitive.NewObjectID(),
		EventID:     eventID,
		UserID:      userID,
		Answers:     answers,
		Status:      models.ParticipationActive,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if _, err := f.DB.Collection("participations").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("CreateParticipation: %v", err)
	}
	return p
}
