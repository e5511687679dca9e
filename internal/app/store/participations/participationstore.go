// internal/app/store/participations/participationstore.go
package participationstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/formschema"
	"github.com/dalemusser/clubhub/internal/app/system/keymutex"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	events *mongo.Collection

	// Serializes register/cancel per (event, member) within this process.
	// The unique partial index on (event_id, user_id, status=active) is the
	// cross-process backstop.
	locks *keymutex.KeyMutex
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("participations"),
		events: db.Collection("events"),
		locks:  keymutex.New(),
	}
}

func lockKey(eventID, userID primitive.ObjectID) string {
	return eventID.Hex() + "/" + userID.Hex()
}

// Register submits (or re-submits) a member's participation in an event.
// Re-registering while already active overwrites the previous answers. The
// answers are validated against the event's form schema, and registration is
// refused once the deadline has passed.
func (s *Store) Register(ctx context.Context, eventID, userID primitive.ObjectID, answers map[string]models.Answer, now time.Time) (models.Participation, error) {
	var e models.Event
	if err := s.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Participation{}, domainerr.ErrNotFound
		}
		return models.Participation{}, err
	}

	if !e.AcceptingAt(now) {
		return models.Participation{}, domainerr.ErrDeadlinePassed
	}

	if errs := formschema.Validate(e.FormSchema, answers); len(errs) > 0 {
		return models.Participation{}, domainerr.Validation(errs)
	}

	key := lockKey(eventID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	now = now.UTC()

	// Overwrite the active record if one exists.
	after := options.After
	var p models.Participation
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"event_id": eventID, "user_id": userID, "status": models.ParticipationActive},
		bson.M{"$set": bson.M{
			"answers":    answers,
			"updated_at": now,
		}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&p)
	if err == nil {
		return p, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Participation{}, err
	}

	p = models.Participation{
		ID:          primitive.NewObjectID(),
		EventID:     eventID,
		UserID:      userID,
		Answers:     answers,
		Status:      models.ParticipationActive,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a cross-process race; the other registration stands.
			return models.Participation{}, domainerr.ErrInvalidState
		}
		return models.Participation{}, err
	}
	return p, nil
}

// Cancel withdraws a member's active participation. Cancelling when no
// active record exists is a no-op, so retries are safe. Cancellation is
// allowed after the deadline.
func (s *Store) Cancel(ctx context.Context, eventID, userID primitive.ObjectID, now time.Time) error {
	key := lockKey(eventID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	now = now.UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"event_id": eventID, "user_id": userID, "status": models.ParticipationActive},
		bson.M{"$set": bson.M{
			"status":       models.ParticipationCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		}},
	)
	return err
}

// Get returns the member's active participation in the event, or
// ErrNotFound when there is none.
func (s *Store) Get(ctx context.Context, eventID, userID primitive.ObjectID) (*models.Participation, error) {
	var p models.Participation
	err := s.c.FindOne(ctx, bson.M{
		"event_id": eventID,
		"user_id":  userID,
		"status":   models.ParticipationActive,
	}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, domainerr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IsParticipating reports whether the member holds an active participation
// in the event.
func (s *Store) IsParticipating(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"event_id": eventID,
		"user_id":  userID,
		"status":   models.ParticipationActive,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByEvent returns the event's active participations in submission order.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"event_id": eventID, "status": models.ParticipationActive},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var parts []models.Participation
	if err := cur.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// ListByUser returns every participation record for a member, newest first.
// Cancelled records are included as history.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var parts []models.Participation
	if err := cur.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// CountActive returns the number of active participations for an event.
func (s *Store) CountActive(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"status":   models.ParticipationActive,
	})
}
