package httpapi

import "github.com/opsdeck/opsdeck/internal/server/models"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type userCreateRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type userUpdateRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type userUpdateMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type itemCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type itemUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type userOut struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type itemOut struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     int64  `json:"owner_id"`
}

type userListOut struct {
	Data  []userOut `json:"data"`
	Count int64     `json:"count"`
}

type itemListOut struct {
	Data  []itemOut `json:"data"`
	Count int64     `json:"count"`
}

type messageOut struct {
	Message string `json:"message"`
}

func toUserOut(u *models.User) userOut {
	return userOut{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

func toItemOut(i *models.Item) itemOut {
	return itemOut{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		OwnerID:     i.OwnerID,
	}
}
