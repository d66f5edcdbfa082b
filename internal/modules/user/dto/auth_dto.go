package dto

type LoginInput struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Username  string `json:"username" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Role      string `json:"role"`
}

// SocialLoginInput is posted by native clients after the provider SDK signed the user in.
type SocialLoginInput struct {
	Provider      string `json:"provider"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ProviderID    string `json:"providerId"`
	IdentityToken string `json:"identityToken"`
}

type GoogleAuthInput struct {
	Code         string `json:"code" binding:"required"`
	RedirectURI  string `json:"redirect_uri"`
	CodeVerifier string `json:"code_verifier"`
	ClientID     string `json:"client_id"`
}

type LinkedInAuthInput struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirect_uri"`
}

// AuthUser keeps the key casing existing clients read.
type AuthUser struct {
	Email          string `json:"Email"`
	FirstName      string `json:"FirstName"`
	LastName       string `json:"LastName"`
	SchoolName     string `json:"SchoolName"`
	Role           string `json:"Role"`
	Color          string `json:"color"`
	ProfilePicLink string `json:"ProfilePicLink"`
}

type AuthResponse struct {
	Message     string   `json:"message"`
	User        AuthUser `json:"user"`
	Token       string   `json:"token"`
	ExpiresAt   int64    `json:"expires_at"`
	Requires2FA bool     `json:"requires2FA"`
}
