package dto

type SendCodeInput struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyTwoFactorInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// TwoFactorResponse keeps the success flag mobile clients branch on.
type TwoFactorResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	User    *VerifiedEmail `json:"user,omitempty"`
}

type VerifiedEmail struct {
	Email string `json:"email"`
}
