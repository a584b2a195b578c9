package dto

import (
	"time"

	"github.com/campuskit/institute-api/internal/models"
)

// RegisterInstituteRequest creates an institute together with its first
// admin account.
type RegisterInstituteRequest struct {
	InstituteName    string `json:"institute_name" validate:"required,min=3"`
	InstituteEmail   string `json:"institute_email" validate:"omitempty,email"`
	InstituteAddress string `json:"institute_address"`
	AdminName        string `json:"admin_name" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	InstituteID string    `json:"institute_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InstituteResponse is the serialized institute representation.
type InstituteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse bundles the authenticated user with a bearer token.
type AuthResponse struct {
	User      UserResponse       `json:"user"`
	Institute *InstituteResponse `json:"institute,omitempty"`
	Token     string             `json:"token"`
	ExpiresIn string             `json:"expires_in"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
	if model.InstituteID != nil {
		response.InstituteID = *model.InstituteID
	}
	return response
}

// NewInstituteResponse converts a model into a DTO.
func NewInstituteResponse(model models.Institute) InstituteResponse {
	return InstituteResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Address:   model.Address,
		CreatedAt: model.CreatedAt,
	}
}
