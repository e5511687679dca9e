// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/formschema"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	parts *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("events"),
		parts: db.Collection("participations"),
	}
}

// Draft is the admin input for creating or updating an event.
type Draft struct {
	Name        string
	Description string
	Date        time.Time
	Visibility  string
	TargetYear  string
	Images      []string
	Deadline    time.Time
	FormSchema  []models.FormField
}

// normalizeVisibility maps the submitted value. The admin client sends
// "discord" for events limited to Discord-connected members.
func normalizeVisibility(v string) (string, bool) {
	switch v {
	case models.VisibilityPublic:
		return models.VisibilityPublic, true
	case models.VisibilityRestricted, "discord":
		return models.VisibilityRestricted, true
	}
	return "", false
}

func (s *Store) validateDraft(d *Draft) []domainerr.FieldError {
	var errs []domainerr.FieldError

	d.Name = htmlsanitize.StripTags(normalize.Name(d.Name))
	d.Description = htmlsanitize.StripTags(d.Description)
	d.TargetYear = normalize.YearLabel(d.TargetYear)

	if d.Name == "" {
		errs = append(errs, domainerr.FieldError{Field: "name", Reason: domainerr.ReasonRequired, Message: "event name is required"})
	}
	if d.Date.IsZero() {
		errs = append(errs, domainerr.FieldError{Field: "date", Reason: domainerr.ReasonRequired, Message: "event date is required"})
	}
	if d.Deadline.IsZero() {
		errs = append(errs, domainerr.FieldError{Field: "deadline", Reason: domainerr.ReasonRequired, Message: "registration deadline is required"})
	}

	vis, ok := normalizeVisibility(d.Visibility)
	if !ok {
		errs = append(errs, domainerr.FieldError{Field: "visibility", Reason: domainerr.ReasonInvalidOption, Message: "visibility must be public or discord"})
	} else {
		d.Visibility = vis
	}

	for i := range d.FormSchema {
		d.FormSchema[i].Label = htmlsanitize.StripTags(normalize.Name(d.FormSchema[i].Label))
		if d.FormSchema[i].ID == "" {
			d.FormSchema[i].ID = uuid.NewString()
		}
	}
	errs = append(errs, formschema.CheckSchema(d.FormSchema)...)

	return errs
}

// Create validates the draft and inserts a new event. Form fields without an
// id get a generated one.
func (s *Store) Create(ctx context.Context, d Draft, now time.Time) (models.Event, error) {
	if errs := s.validateDraft(&d); len(errs) > 0 {
		return models.Event{}, domainerr.Validation(errs)
	}

	now = now.UTC()
	e := models.Event{
		ID:          primitive.NewObjectID(),
		Name:        d.Name,
		NameCI:      text.Fold(d.Name),
		Description: d.Description,
		Date:        d.Date.UTC(),
		Visibility:  d.Visibility,
		TargetYear:  d.TargetYear,
		Images:      d.Images,
		Deadline:    d.Deadline.UTC(),
		FormSchema:  d.FormSchema,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads an event. Returns domainerr.ErrNotFound for an unknown id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainerr.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns events, optionally filtered by target year, in creation
// order. Year tabs in the clients show one year at a time, so no pagination.
func (s *Store) List(ctx context.Context, year string) ([]models.Event, error) {
	filter := bson.M{}
	if year != "" {
		filter["target_year"] = normalize.YearLabel(year)
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update validates the draft and overwrites the event's fields. Changing the
// form schema once the event has active participations is refused with
// ErrInvalidState, since already-submitted answers would stop matching.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d Draft, now time.Time) (*models.Event, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if errs := s.validateDraft(&d); len(errs) > 0 {
		return nil, domainerr.Validation(errs)
	}

	if !schemaEqual(current.FormSchema, d.FormSchema) {
		n, err := s.parts.CountDocuments(ctx, bson.M{
			"event_id": id,
			"status":   models.ParticipationActive,
		})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domainerr.ErrInvalidState
		}
	}

	after := options.After
	var e models.Event
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":        d.Name,
			"name_ci":     text.Fold(d.Name),
			"description": d.Description,
			"date":        d.Date.UTC(),
			"visibility":  d.Visibility,
			"target_year": d.TargetYear,
			"images":      d.Images,
			"deadline":    d.Deadline.UTC(),
			"form_schema": d.FormSchema,
			"updated_at":  now.UTC(),
		}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, domainerr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes an event and every participation record attached to it.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return nil
	}
	_, err = s.parts.DeleteMany(ctx, bson.M{"event_id": id})
	return err
}

func schemaEqual(a, b []models.FormField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Kind != b[i].Kind ||
			a[i].Label != b[i].Label || a[i].Required != b[i].Required {
			return false
		}
		if len(a[i].Options) != len(b[i].Options) {
			return false
		}
		for j := range a[i].Options {
			if a[i].Options[j] != b[i].Options[j] {
				return false
			}
		}
	}
	return true
}
