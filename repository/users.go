package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auth "github.com/vendora/go-auth"
)

// Users implements auth.UserStore on the users collection. The unique
// indexes on email and cpf are the authoritative uniqueness guard; the
// pre-check queries below only exist to produce a friendlier conflict error
// on the fast path.
type Users struct {
	col *mongo.Collection
}

var _ auth.UserStore = (*Users)(nil)

// NewUsers builds the users repository.
func NewUsers(db *mongo.Database) *Users {
	return &Users{col: db.Collection("users")}
}

// Create inserts a new user document, translating uniqueness violations on
// email or cpf into conflict errors.
func (r *Users) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	existing := &auth.User{}
	err := r.col.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": user.Email},
		bson.M{"cpf": user.CPF},
	}}).Decode(existing)
	if err == nil {
		if existing.Email == user.Email {
			return nil, auth.ErrEmailTaken
		}
		return nil, auth.ErrCPFTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user uniqueness pre-check failed")
	}

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return user, nil
}

// GetByID loads a user by the hex id carried in token claims.
func (r *Users) GetByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrIdentityNotFound
	}

	return r.findOne(ctx, bson.M{"_id": oid}, auth.ErrIdentityNotFound)
}

// GetByEmail loads a user by normalized email.
func (r *Users) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, auth.ErrIdentityNotFound)
}

// GetByConfirmationToken matches the pending token or a token already
// consumed by a past confirmation, keeping confirm idempotent after the
// pending field has been cleared.
func (r *Users) GetByConfirmationToken(ctx context.Context, token string) (*auth.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"confirmation_token": token},
		bson.M{"confirmed_token": token},
	}}
	return r.findOne(ctx, filter, auth.ErrConfirmationNotFound)
}

// Confirm flips the account to confirmed in a single document update:
// confirmed set, consumed token recorded, pending token and expiry unset.
func (r *Users) Confirm(ctx context.Context, id, token string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrIdentityNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"confirmed":       true,
			"confirmed_token": token,
			"updated_at":      time.Now(),
		},
		"$unset": bson.M{
			"confirmation_token":   "",
			"confirmation_expires": "",
		},
	}

	user := &auth.User{}
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to confirm user")
	}

	return user, nil
}

// Update replaces a user document after re-checking that the new email and
// cpf do not belong to a different account.
func (r *Users) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	taken := &auth.User{}
	err := r.col.FindOne(ctx, bson.M{
		"_id": bson.M{"$ne": user.ID},
		"$or": bson.A{
			bson.M{"email": user.Email},
			bson.M{"cpf": user.CPF},
		},
	}).Decode(taken)
	if err == nil {
		if taken.Email == user.Email {
			return nil, auth.ErrEmailTaken
		}
		return nil, auth.ErrCPFTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user uniqueness pre-check failed")
	}

	user.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}
	if res.MatchedCount == 0 {
		return nil, auth.ErrIdentityNotFound
	}

	return user, nil
}

// TrackSuccessfulLogin records the login timestamp.
func (r *Users) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	now := time.Now()
	_, err := r.col.UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{
			"last_login_at": now,
			"updated_at":    now,
		},
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to track login")
	}

	user.LastLoginAt = &now
	user.UpdatedAt = now
	return nil
}

func (r *Users) findOne(ctx context.Context, filter bson.M, notFound error) (*auth.User, error) {
	user := &auth.User{}
	if err := r.col.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query users")
	}
	return user, nil
}

// duplicateUserError maps a duplicate-key error from the unique indexes onto
// the conflicting field. The index name is part of the driver error text.
func duplicateUserError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "cpf"):
		return auth.ErrCPFTaken
	default:
		return auth.ErrEmailTaken
	}
}
