// Package models defines the server-side entities.
package models

// User is an account record. HashedPassword never leaves the server.
type User struct {
	ID             int64
	Email          string
	FullName       string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
}

// Item is a user-owned record.
type Item struct {
	ID          int64
	Title       string
	Description string
	OwnerID     int64
}
