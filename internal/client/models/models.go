// Package models defines the client-side DTOs exchanged with the opsdeck API.
// All server-derived data lives in the resource cache; these types are plain
// value carriers and hold no behavior.
package models

// CurrentUser is the authenticated account as reported by GET /users/me.
type CurrentUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// User is a row of the admin user list.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Item is a row of the item list.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     int64  `json:"owner_id"`
}

// UserList is the collection envelope returned by GET /users.
type UserList struct {
	Data  []User `json:"data"`
	Count int    `json:"count"`
}

// ItemList is the collection envelope returned by GET /items.
type ItemList struct {
	Data  []Item `json:"data"`
	Count int    `json:"count"`
}

// UserCreate is the payload for POST /users.
type UserCreate struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdate is the partial payload for PATCH /users/{id}. Nil fields are
// omitted and left unchanged on the server.
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UserUpdateMe is the partial payload for PATCH /users/me.
type UserUpdateMe struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// ItemCreate is the payload for POST /items.
type ItemCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ItemUpdate is the partial payload for PATCH /items/{id}.
type ItemUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
