package models

import "time"

// User is an account able to sign in and manage videos.
type User struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PostVideo is the metadata record for an uploaded video. Video holds the
// logical filename shared with the media store; the derived thumbnail lives
// beside it as "<Video>.jpg".
type PostVideo struct {
	ID        string
	Title     string
	Video     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ThumbnailName returns the media-store name of the derived thumbnail.
func (v PostVideo) ThumbnailName() string {
	return v.Video + ".jpg"
}
