package dto

import commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	FName    string `json:"fname" binding:"required,max=100"`
	LName    string `json:"lname" binding:"max=100"`
	SchoolID uint   `json:"schoolId"`
}

type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangeColorInput struct {
	Email string `json:"email"`
	Color string `json:"color" binding:"required,max=20"`
}

type UpdateUserInfoInput struct {
	Email      string `json:"email"`
	NewEmail   string `json:"newEmail" binding:"omitempty,email"`
	FirstName  string `json:"firstname" binding:"max=100"`
	LastName   string `json:"lastname" binding:"max=100"`
	SchoolName string `json:"schoolName" binding:"max=255"`
}

// CreatedUserResponse carries the one-time password of an admin-provisioned account.
type CreatedUserResponse struct {
	Message           string                `json:"message"`
	User              commonDto.UserProfile `json:"user"`
	TemporaryPassword string                `json:"temporaryPassword"`
}

type UpdateUserInfoResponse struct {
	Message string                `json:"message"`
	User    commonDto.UserProfile `json:"user"`
	Token   string                `json:"token,omitempty"`
}

type UserListResponse struct {
	Data []commonDto.UserProfile `json:"data"`
}
