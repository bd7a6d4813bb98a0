// Package repositories contains MongoDB repository implementations.
package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tuneport/backend/internal/models"
	"github.com/tuneport/backend/internal/utils"
)

// Collection name
const (
	userCollection = "users"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by their ID.
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)

	// FindByEmail finds a user by their email address.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by their username.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindMany finds multiple users based on query filters.
	FindMany(ctx context.Context, filter bson.M, options options.Lister[options.FindOptions]) ([]*models.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *models.User) error

	// UpdateLastLogin updates a user's last login time.
	UpdateLastLogin(ctx context.Context, id bson.ObjectID) error

	// UpdateProfile updates a user's profile information.
	UpdateProfile(ctx context.Context, userID bson.ObjectID, profile models.UserProfile) error

	// UpdateSettings updates a user's settings.
	UpdateSettings(ctx context.Context, userID bson.ObjectID, settings models.UserSettings) error

	// UpdatePassword updates a user's hashed password.
	UpdatePassword(ctx context.Context, userID bson.ObjectID, hashedPassword string) error

	// SetActive sets a user's active status.
	SetActive(ctx context.Context, userID bson.ObjectID, active bool) error

	// Delete deletes a user by their ID.
	Delete(ctx context.Context, id bson.ObjectID) error

	// CountUsers counts the number of users that match the given filter.
	CountUsers(ctx context.Context, filter bson.M) (int64, error)
}

// userRepository is the MongoDB implementation of UserRepository.
type userRepository struct {
	collection *mongo.Collection
	logger     *utils.Logger
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database, logger *utils.Logger) UserRepository {
	return &userRepository{
		collection: db.Collection(userCollection),
		logger:     logger.Named("user_repository"),
	}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}

	now := time.Now()
	user.TimeCreate(now)

	if user.Profile.JoinDate.IsZero() {
		user.Profile.JoinDate = now
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Check which field is duplicated
			if strings.Contains(err.Error(), "email") {
				return models.ErrEmailAlreadyExists
			}
			if strings.Contains(err.Error(), "username") {
				return models.ErrUsernameAlreadyExists
			}
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user", err, "email", user.Email, "username", user.Username)
		return models.NewInternalError(err, "Failed to create user")
	}

	return nil
}

// FindByID finds a user by their ID.
func (r *userRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by ID", err, "id", id.Hex())
		return nil, models.NewInternalError(err, "Failed to find user")
	}

	return &user, nil
}

// FindByEmail finds a user by their email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by email", err, "email", email)
		return nil, models.NewInternalError(err, "Failed to find user")
	}

	return &user, nil
}

// FindByUsername finds a user by their username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	// Case-insensitive search
	opts := options.FindOne().SetCollation(&options.Collation{
		Locale:    "en",
		Strength:  2, // Case-insensitive
		CaseLevel: false,
	})

	err := r.collection.FindOne(ctx, bson.M{"username": username}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to find user by username", err, "username", username)
		return nil, models.NewInternalError(err, "Failed to find user")
	}

	return &user, nil
}

// FindMany finds multiple users based on query filters.
func (r *userRepository) FindMany(ctx context.Context, filter bson.M, options options.Lister[options.FindOptions]) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, filter, options)
	if err != nil {
		r.logger.Error("Failed to find users", err, "filter", filter)
		return nil, models.NewInternalError(err, "Failed to find users")
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		r.logger.Error("Failed to decode users", err)
		return nil, models.NewInternalError(err, "Failed to decode users")
	}

	return users, nil
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdateNow()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Check which field is duplicated
			if strings.Contains(err.Error(), "email") {
				return models.ErrEmailAlreadyExists
			}
			if strings.Contains(err.Error(), "username") {
				return models.ErrUsernameAlreadyExists
			}
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to update user", err, "id", user.ID.Hex())
		return models.NewInternalError(err, "Failed to update user")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin updates a user's last login time.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id bson.ObjectID) error {
	now := time.Now()
	update := bson.D{
		cmdSet(bson.M{
			"lastLogin": now,
			"updatedAt": now,
		}),
	}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		r.logger.Error("Failed to update last login", err, "id", id.Hex())
		return models.NewInternalError(err, "Failed to update last login")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// UpdateProfile updates a user's profile information.
func (r *userRepository) UpdateProfile(ctx context.Context, userID bson.ObjectID, profile models.UserProfile) error {
	update := bson.D{
		cmdSet(bson.M{
			"profile":   profile,
			"updatedAt": time.Now(),
		}),
	}

	result, err := r.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		r.logger.Error("Failed to update profile", err, "id", userID.Hex())
		return models.NewInternalError(err, "Failed to update profile")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// UpdateSettings updates a user's settings.
func (r *userRepository) UpdateSettings(ctx context.Context, userID bson.ObjectID, settings models.UserSettings) error {
	update := bson.D{
		cmdSet(bson.M{
			"settings":  settings,
			"updatedAt": time.Now(),
		}),
	}

	result, err := r.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		r.logger.Error("Failed to update settings", err, "id", userID.Hex())
		return models.NewInternalError(err, "Failed to update settings")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// UpdatePassword updates a user's hashed password.
func (r *userRepository) UpdatePassword(ctx context.Context, userID bson.ObjectID, hashedPassword string) error {
	update := bson.D{
		cmdSet(bson.M{
			"password":  hashedPassword,
			"updatedAt": time.Now(),
		}),
	}

	result, err := r.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		r.logger.Error("Failed to update password", err, "id", userID.Hex())
		return models.NewInternalError(err, "Failed to update password")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// SetActive sets a user's active status.
func (r *userRepository) SetActive(ctx context.Context, userID bson.ObjectID, active bool) error {
	update := bson.D{
		cmdSet(bson.M{
			"isActive":  active,
			"updatedAt": time.Now(),
		}),
	}

	result, err := r.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		r.logger.Error("Failed to set active status", err, "id", userID.Hex())
		return models.NewInternalError(err, "Failed to set active status")
	}

	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// Delete deletes a user by their ID.
func (r *userRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete user", err, "id", id.Hex())
		return models.NewInternalError(err, "Failed to delete user")
	}

	if result.DeletedCount == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// CountUsers counts the number of users that match the given filter.
func (r *userRepository) CountUsers(ctx context.Context, filter bson.M) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count users", err, "filter", filter)
		return 0, models.NewInternalError(err, "Failed to count users")
	}

	return count, nil
}
