// Package models contains the data structures used throughout the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// BaseUser contains the common fields for all user types.
type BaseUser struct {
	// ID is the unique identifier for the user.
	ID bson.ObjectID `json:"id" bson:"_id,omitempty"`

	// Username is the user's chosen username.
	Username string `json:"username" bson:"username" validate:"required,min=3,max=30,username"`

	// Profile contains the user's profile information.
	Profile UserProfile `json:"profile" bson:"profile"`

	// Roles contains the user's roles.
	Roles []string `json:"roles" bson:"roles"`
}

// User represents a user in the application.
type User struct {
	// BaseUser embeds the base user information.
	BaseUser `bson:"inline"`

	// Email is the user's email address.
	Email string `json:"email" bson:"email" validate:"required,email"`

	// Password is the user's hashed password.
	Password string `json:"-" bson:"password"`

	// Settings contains the user's personal settings.
	Settings UserSettings `json:"settings" bson:"settings"`

	// IsActive indicates whether the user's account is active.
	IsActive bool `json:"isActive" bson:"isActive"`

	// LastLogin is the time of the user's last login.
	LastLogin time.Time `json:"lastLogin" bson:"lastLogin"`

	// ObjectTimes contains timestamps for this user.
	ObjectTimes
}

// UserProfile represents a user's profile information.
type UserProfile struct {
	// DisplayName is shown in place of the username when set.
	DisplayName string `json:"displayName" bson:"displayName" validate:"max=50"`

	// AvatarURL is an optional avatar image URL.
	AvatarURL string `json:"avatarUrl" bson:"avatarUrl" validate:"omitempty,url"`

	// Language is the user's preferred catalog language.
	Language string `json:"language" bson:"language" validate:"max=10"`

	// JoinDate is when the user joined.
	JoinDate time.Time `json:"joinDate" bson:"joinDate"`
}

// UserSettings represents a user's personal settings.
type UserSettings struct {
	// Theme is the user's preferred UI theme.
	Theme string `json:"theme" bson:"theme"`

	// Volume is the user's preferred volume level.
	Volume int `json:"volume" bson:"volume" validate:"min=0,max=100"`

	// StreamQuality is the preferred stream quality tier.
	StreamQuality string `json:"streamQuality" bson:"streamQuality"`

	// Autoplay indicates whether playback continues automatically.
	Autoplay bool `json:"autoplay" bson:"autoplay"`
}

// PublicUser represents a subset of user information that is safe to share publicly.
type PublicUser struct {
	// BaseUser embeds the base user information.
	BaseUser
}

// ToPublicUser converts a User to a PublicUser.
func (u *User) ToPublicUser() PublicUser {
	return PublicUser{BaseUser: u.BaseUser}
}

// PersonalUser represents the user information returned to the user themselves.
type PersonalUser struct {
	// BaseUser embeds the base user information.
	BaseUser

	// Email is the user's email address.
	Email string `json:"email"`

	// Settings contains the user's personal settings.
	Settings UserSettings `json:"settings"`
}

// ToPersonalUser converts a User to a PersonalUser.
func (u *User) ToPersonalUser() PersonalUser {
	return PersonalUser{
		BaseUser: u.BaseUser,
		Email:    u.Email,
		Settings: u.Settings,
	}
}

// UserRegisterRequest represents the data needed to register a new user.
type UserRegisterRequest struct {
	// Username is the user's chosen username.
	Username string `json:"username" validate:"required,min=3,max=30,username"`

	// Email is the user's email address.
	Email string `json:"email" validate:"required,email"`

	// Password is the user's password.
	Password string `json:"password" validate:"required,min=8,max=72,password"`
}

// UserLoginRequest represents the data needed to log in a user.
type UserLoginRequest struct {
	// Email is the user's email address.
	Email string `json:"email" validate:"required,email"`

	// Password is the user's password.
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest represents the data needed to update a user.
type UserUpdateRequest struct {
	// Username is the user's chosen username.
	Username string `json:"username" validate:"omitempty,min=3,max=30,username"`

	// Profile contains the user's profile information.
	Profile *UserProfile `json:"profile,omitempty"`

	// Settings contains the user's personal settings.
	Settings *UserSettings `json:"settings,omitempty"`
}

// UserPasswordChangeRequest represents the data needed to change a user's password.
type UserPasswordChangeRequest struct {
	// CurrentPassword is the user's current password.
	CurrentPassword string `json:"currentPassword" validate:"required"`

	// NewPassword is the user's new password.
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,password"`
}
