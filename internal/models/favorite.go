// Package models contains the data structures used throughout the application.
package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Favorite records a song a user has marked as a favorite. Like playlist
// items it stores a snapshot of the normalized song, keyed by provider and
// the song's provider-scoped identifier.
type Favorite struct {
	// ID is the unique identifier for the favorite record.
	ID bson.ObjectID `json:"id" bson:"_id,omitempty"`

	// UserID is the owning user.
	UserID bson.ObjectID `json:"userId" bson:"userId"`

	// Provider names the provider the song came from.
	Provider string `json:"provider" bson:"provider"`

	// SongID is the song's identifier within that provider.
	SongID string `json:"songId" bson:"songId"`

	// Song is the normalized song snapshot taken when favorited.
	Song Song `json:"song" bson:"song"`

	// ObjectTimes contains timestamps for this favorite.
	ObjectTimes
}

// FavoriteAddRequest represents the data needed to favorite a song.
type FavoriteAddRequest struct {
	// Provider names the provider the song belongs to.
	Provider string `json:"provider" validate:"required"`

	// SongID is the song's identifier within that provider.
	SongID string `json:"songId" validate:"required"`
}
