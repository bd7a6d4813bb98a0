// Package models contains the data structures used throughout the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Playlist represents a collection of songs curated by a user. Unlike
// ProviderPlaylist, it is owned by an account and persisted in our own
// database; each item carries a snapshot of the normalized song so the
// playlist stays renderable even when its provider is unreachable.
type Playlist struct {
	// ID is the unique identifier for the playlist.
	ID bson.ObjectID `json:"id" bson:"_id,omitempty"`

	// Name is the display name of the playlist.
	Name string `json:"name" bson:"name" validate:"required,min=1,max=50"`

	// Description provides information about the playlist.
	Description string `json:"description" bson:"description" validate:"max=1000"`

	// Owner is the ID of the user who owns the playlist.
	Owner bson.ObjectID `json:"owner" bson:"owner"`

	// IsPrivate indicates whether the playlist is private.
	IsPrivate bool `json:"isPrivate" bson:"isPrivate"`

	// Items are the songs in the playlist, in play order.
	Items []PlaylistItem `json:"items" bson:"items"`

	// CoverImage is an optional URL for a playlist cover image.
	CoverImage string `json:"coverImage,omitempty" bson:"coverImage,omitempty" validate:"omitempty,url"`

	// ObjectTimes contains timestamps for this playlist.
	ObjectTimes
}

// PlaylistItem represents a song in a user playlist.
type PlaylistItem struct {
	// ID is a unique identifier for this item in the playlist.
	ID bson.ObjectID `json:"id" bson:"_id,omitempty"`

	// Provider names the provider the song came from.
	Provider string `json:"provider" bson:"provider"`

	// Song is the normalized song snapshot taken when the item was added.
	Song Song `json:"song" bson:"song"`

	// Order is the position of the item in the playlist.
	Order int `json:"order" bson:"order"`

	// AddedAt is the time the item was added to the playlist.
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}

// PlaylistInfo represents a simplified playlist object for list views.
type PlaylistInfo struct {
	ID          bson.ObjectID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsPrivate   bool          `json:"isPrivate"`
	ItemCount   int           `json:"itemCount"`
	CoverImage  string        `json:"coverImage,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ToPlaylistInfo converts a Playlist to a PlaylistInfo.
func (p *Playlist) ToPlaylistInfo() PlaylistInfo {
	return PlaylistInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsPrivate:   p.IsPrivate,
		ItemCount:   len(p.Items),
		CoverImage:  p.CoverImage,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlaylistCreateRequest represents the data needed to create a playlist.
type PlaylistCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=1000"`
	IsPrivate   bool   `json:"isPrivate"`
	CoverImage  string `json:"coverImage" validate:"omitempty,url"`
}

// PlaylistUpdateRequest represents the data needed to update a playlist.
type PlaylistUpdateRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsPrivate   *bool   `json:"isPrivate,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty" validate:"omitempty,url"`
}

// PlaylistAddItemRequest represents the data needed to add a song to a playlist.
type PlaylistAddItemRequest struct {
	// Provider names the provider the song belongs to.
	Provider string `json:"provider" validate:"required"`

	// SongID is the song's identifier within that provider.
	SongID string `json:"songId" validate:"required"`

	// Position is the insertion index; -1 appends.
	Position int `json:"position"`
}
