// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c          *mongo.Collection
	rejections *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("members"),
		rejections: db.Collection("member_rejections"),
	}
}

// Registration is the input for a new membership application.
type Registration struct {
	LastName   string
	FirstName  string
	Nickname   string
	StudentID  string
	Department string
	Year       string
	Bio        string
}

// SubmitRegistration validates and inserts a pending member. All field
// problems are collected into one ValidationError; nothing is written unless
// every check passes.
func (s *Store) SubmitRegistration(ctx context.Context, reg Registration, now time.Time) (models.Member, error) {
	m := models.Member{
		ID:         primitive.NewObjectID(),
		LastName:   normalize.Name(reg.LastName),
		FirstName:  normalize.Name(reg.FirstName),
		Nickname:   normalize.Name(reg.Nickname),
		StudentID:  normalize.StudentID(reg.StudentID),
		Department: normalize.Name(reg.Department),
		Year:       normalize.YearLabel(reg.Year),
		Bio:        htmlsanitize.StripTags(reg.Bio),

		Privacy:      models.DefaultPrivacy(),
		Status:       models.StatusPending,
		RegisteredAt: now.UTC(),
	}

	var errs []domainerr.FieldError
	if m.LastName == "" {
		errs = append(errs, domainerr.FieldError{Field: "last_name", Reason: domainerr.ReasonRequired, Message: "last name is required"})
	}
	if m.FirstName == "" {
		errs = append(errs, domainerr.FieldError{Field: "first_name", Reason: domainerr.ReasonRequired, Message: "first name is required"})
	}
	if m.Nickname == "" {
		errs = append(errs, domainerr.FieldError{Field: "nickname", Reason: domainerr.ReasonRequired, Message: "nickname is required"})
	}
	if m.StudentID == "" {
		errs = append(errs, domainerr.FieldError{Field: "student_id", Reason: domainerr.ReasonRequired, Message: "student id is required"})
	}
	if m.Department == "" {
		errs = append(errs, domainerr.FieldError{Field: "department", Reason: domainerr.ReasonRequired, Message: "department is required"})
	}
	if len([]rune(m.Bio)) > models.MaxBioLength {
		errs = append(errs, domainerr.FieldError{Field: "bio", Reason: domainerr.ReasonTooLong, Message: "bio exceeds maximum length"})
	}

	// Pre-check the student id so the duplicate surfaces as a field error
	// alongside the rest. The unique index is the backstop for races.
	if m.StudentID != "" {
		err := s.c.FindOne(ctx, bson.M{"student_id": m.StudentID}).Err()
		switch {
		case err == nil:
			errs = append(errs, domainerr.FieldError{Field: "student_id", Reason: domainerr.ReasonDuplicate, Message: "a registration with this student id already exists"})
		case err != mongo.ErrNoDocuments:
			return models.Member{}, err
		}
	}

	if err := domainerr.Validation(errs); err != nil {
		return models.Member{}, err
	}

	m.FullNameCI = text.Fold(m.FullName())
	m.NicknameCI = text.Fold(m.Nickname)
	m.DepartmentCI = text.Fold(m.Department)

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, domainerr.Invalid("student_id", domainerr.ReasonDuplicate, "a registration with this student id already exists")
		}
		return models.Member{}, err
	}
	return m, nil
}

// GetByID loads a member by ObjectID. Returns domainerr.ErrNotFound when the
// id does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainerr.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByStudentID looks up a member by student id (normalized before the
// query). Returns domainerr.ErrNotFound when no member has that id.
func (s *Store) GetByStudentID(ctx context.Context, studentID string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"student_id": normalize.StudentID(studentID)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, domainerr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Approve transitions a pending member to approved and stamps approved_at.
// Approving a member who is not pending returns ErrInvalidState; an unknown
// id returns ErrNotFound.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Member, error) {
	after := options.After
	var m models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":      models.StatusApproved,
			"approved_at": now.UTC(),
		}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&m)
	if err == nil {
		return &m, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Either the member does not exist or it is not pending. One more read
	// tells the caller which.
	if findErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); findErr == mongo.ErrNoDocuments {
		return nil, domainerr.ErrNotFound
	} else if findErr != nil {
		return nil, findErr
	}
	return nil, domainerr.ErrInvalidState
}

// Reject removes a member in any state, leaving a tombstone in
// member_rejections. Absent members return ErrNotFound.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Tombstone first: if the delete below fails we retry with a second
	// tombstone rather than losing the audit record.
	tomb := models.MemberRejection{
		ID:         primitive.NewObjectID(),
		MemberID:   m.ID,
		StudentID:  m.StudentID,
		LastName:   m.LastName,
		FirstName:  m.FirstName,
		RejectedAt: now.UTC(),
	}
	if _, err := s.rejections.InsertOne(ctx, tomb); err != nil {
		return err
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		// Raced with another reject; the tombstone is stale but harmless.
		return domainerr.ErrNotFound
	}
	return nil
}

// ListPending returns pending registrations in submission order.
func (s *Store) ListPending(ctx context.Context) ([]models.Member, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SearchResult is one directory page plus its paging cursors.
type SearchResult struct {
	Members    []models.Member
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
}

// SearchApproved returns a page of approved members matching the free-text
// query, ordered by folded full name with keyset pagination.
func (s *Store) SearchApproved(ctx context.Context, query, before, after string) (SearchResult, error) {
	cfg := paging.ConfigureKeyset(before, after)

	clauses := []bson.M{{"status": models.StatusApproved}}
	if f := search.MemberFilter(query); len(f) > 0 {
		clauses = append(clauses, f)
	}
	if ks := cfg.KeysetWindow("full_name_ci"); ks != nil {
		clauses = append(clauses, ks)
	}

	find := options.Find()
	cfg.ApplyToFind(find, "full_name_ci")

	cur, err := s.c.Find(ctx, bson.M{"$and": clauses}, find)
	if err != nil {
		return SearchResult{}, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return SearchResult{}, err
	}

	page := paging.TrimPage(&members, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(members)
	}

	prev, next := paging.BuildCursors(members,
		func(m models.Member) string { return m.FullNameCI },
		func(m models.Member) primitive.ObjectID { return m.ID },
	)

	return SearchResult{
		Members:    members,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prev,
		NextCursor: next,
	}, nil
}

// CountByStatus returns the number of members in the given lifecycle state.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// ProfileUpdate holds the self-editable profile fields. Nil pointers leave
// the stored value unchanged; non-nil pointers overwrite it.
type ProfileUpdate struct {
	Nickname      *string
	Department    *string
	Year          *string
	Bio           *string
	Roles         []string
	Privacy       map[models.ProfileField]bool
	FavoriteLinks []models.FavoriteLink
}

// UpdateProfile applies a member's edits to their own profile. All field
// problems are aggregated; nothing is written unless every check passes.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.Member, error) {
	var errs []domainerr.FieldError
	set := bson.M{}

	if upd.Nickname != nil {
		nick := normalize.Name(*upd.Nickname)
		set["nickname"] = nick
		set["nickname_ci"] = text.Fold(nick)
	}
	if upd.Department != nil {
		dep := normalize.Name(*upd.Department)
		set["department"] = dep
		set["department_ci"] = text.Fold(dep)
	}
	if upd.Year != nil {
		set["year"] = normalize.YearLabel(*upd.Year)
	}
	if upd.Bio != nil {
		bio := htmlsanitize.StripTags(*upd.Bio)
		if len([]rune(bio)) > models.MaxBioLength {
			errs = append(errs, domainerr.FieldError{Field: "bio", Reason: domainerr.ReasonTooLong, Message: "bio exceeds maximum length"})
		} else {
			set["bio"] = bio
		}
	}
	if upd.Roles != nil {
		roles := normalize.Roles(upd.Roles)
		folded := make([]string, len(roles))
		for i, r := range roles {
			folded[i] = text.Fold(r)
		}
		set["roles"] = roles
		set["roles_ci"] = folded
	}
	if upd.Privacy != nil {
		known := make(map[models.ProfileField]bool, len(models.ProfileFields))
		for _, f := range models.ProfileFields {
			known[f] = true
		}
		for f := range upd.Privacy {
			if !known[f] {
				errs = append(errs, domainerr.FieldError{Field: "privacy." + string(f), Reason: domainerr.ReasonInvalid, Message: "unknown profile field"})
			}
		}
		if len(errs) == 0 {
			set["privacy"] = upd.Privacy
		}
	}
	if upd.FavoriteLinks != nil {
		if len(upd.FavoriteLinks) > models.MaxFavoriteLinks {
			errs = append(errs, domainerr.FieldError{Field: "favorite_links", Reason: domainerr.ReasonTooMany, Message: "too many favorite links"})
		} else {
			links := make([]models.FavoriteLink, 0, len(upd.FavoriteLinks))
			for i, l := range upd.FavoriteLinks {
				u, ok := normalize.URL(l.URL)
				if !ok {
					errs = append(errs, domainerr.FieldError{
						Field:   fmt.Sprintf("favorite_links[%d].url", i),
						Reason:  domainerr.ReasonInvalid,
						Message: "must be an absolute http(s) URL",
					})
					continue
				}
				if l.ID == "" {
					l.ID = uuid.NewString()
				}
				l.Title = htmlsanitize.StripTags(normalize.Name(l.Title))
				l.URL = u
				links = append(links, l)
			}
			set["favorite_links"] = links
		}
	}

	if err := domainerr.Validation(errs); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	// The folded full name depends on last/first which self-edits never
	// touch, so no full_name_ci refresh is needed here.
	after := options.After
	var m models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, domainerr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetLinkedAccount records the connection state for one provider on a
// member's profile. Unknown providers are rejected.
func (s *Store) SetLinkedAccount(ctx context.Context, id primitive.ObjectID, provider string, acct models.LinkedAccount) error {
	valid := false
	for _, p := range models.Providers {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return domainerr.Invalid("provider", domainerr.ReasonInvalid, "unknown provider")
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"linked_accounts." + provider: acct}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainerr.ErrNotFound
	}
	return nil
}
