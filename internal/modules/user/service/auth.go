package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	search "github.com/Justin66666/teachersLoungeBE/internal/modules/search/service"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/user/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/user/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ProviderApple    = "apple"
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	SocialLogin(ctx context.Context, input dto.SocialLoginInput) (*dto.AuthResponse, error)
	GoogleAuth(ctx context.Context, input dto.GoogleAuthInput) (*dto.AuthResponse, error)
	LinkedInAuth(ctx context.Context, input dto.LinkedInAuthInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	tokens   *token.Manager
	index    search.UserIndex
	google   OAuthOptions
	linkedIn OAuthOptions
}

// NewAuthService wires password and social sign-in. index may be nil when search is not configured.
func NewAuthService(repo repository.UserRepository, tokens *token.Manager, index search.UserIndex, google, linkedIn OAuthOptions) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		index:    index,
		google:   google,
		linkedIn: linkedIn,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, entity.NormalizeEmail(input.Username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.BadRequest("User doesn't exist")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperror.BadRequest("Incorrect password")
	}

	return s.buildAuthResponse(ctx, user, "User logged in successfully")
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	role := entity.RolePending
	switch input.Role {
	case "", entity.RolePending:
	case entity.RoleGuest:
		role = entity.RoleGuest
	default:
		return nil, apperror.Forbidden("new accounts cannot choose the " + input.Role + " role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:     entity.NormalizeEmail(input.Username),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Password:  string(hashed),
		SchoolID:  entity.DefaultSchoolID,
		Role:      role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("This username is already taken")
		}
		return nil, err
	}
	s.indexUser(user)

	return s.buildAuthResponse(ctx, user, "User registered successfully")
}

// socialProfile is an identity reported by a provider. Verified is set only when
// this server fetched the profile itself through a code exchange.
type socialProfile struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	Verified   bool
}

func (s *authService) SocialLogin(ctx context.Context, input dto.SocialLoginInput) (*dto.AuthResponse, error) {
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	email := input.Email

	// Apple only shares the email on first sign-in; afterwards it lives in the identity token.
	if provider == ProviderApple && email == "" && input.IdentityToken != "" {
		email = emailFromIdentityToken(input.IdentityToken)
	}
	if provider == "" || strings.TrimSpace(email) == "" {
		return nil, apperror.BadRequest("Provider and email are required")
	}

	return s.loginOrCreate(ctx, socialProfile{
		Provider:   provider,
		ProviderID: input.ProviderID,
		Email:      email,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
	})
}

// emailFromIdentityToken reads the email claim without verifying the signature;
// the native client has already completed the Apple handshake.
func emailFromIdentityToken(identityToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(identityToken, claims); err != nil {
		log.Printf("Failed to decode Apple identity token: %v", err)
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// loginOrCreate finds or provisions the account behind a social identity.
// Social accounts skip moderation, so pending accounts are approved on sign-in.
// Unverified claims only reach accounts the same provider created, never an admin.
func (s *authService) loginOrCreate(ctx context.Context, profile socialProfile) (*dto.AuthResponse, error) {
	email := entity.NormalizeEmail(profile.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if !profile.Verified && (user.IsAdmin() || user.AuthProvider != profile.Provider) {
			return nil, apperror.Forbidden("This account cannot sign in with " + profile.Provider)
		}
		if user.IsPending() {
			if err := s.repo.UpdateRole(ctx, email, entity.RoleApproved); err != nil {
				return nil, err
			}
			user.Role = entity.RoleApproved
			s.indexUser(user)
		}
		return s.buildAuthResponse(ctx, user, "User logged in successfully")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	firstName, lastName := defaultNames(profile)
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &entity.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Password:     string(hashed),
		SchoolID:     entity.DefaultSchoolID,
		Role:         entity.RoleApproved,
		AuthProvider: profile.Provider,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		// Lost a race with a concurrent first sign-in.
		return s.loginOrCreate(ctx, profile)
	}
	s.indexUser(user)

	return s.buildAuthResponse(ctx, user, "User created and logged in successfully")
}

func defaultNames(profile socialProfile) (string, string) {
	first := strings.TrimSpace(profile.FirstName)
	last := strings.TrimSpace(profile.LastName)
	if first == "" {
		switch profile.Provider {
		case ProviderApple:
			first = "Apple"
		case ProviderLinkedIn:
			first = "LinkedIn"
		default:
			first = "New"
		}
	}
	if last == "" {
		last = "User"
	}
	return first, last
}

func (s *authService) buildAuthResponse(ctx context.Context, user *entity.User, message string) (*dto.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Generate(user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	authUser := dto.AuthUser{
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role,
		Color:          user.Color,
		ProfilePicLink: user.ProfilePicLink,
	}
	if profile, err := s.repo.FindProfile(ctx, user.Email); err == nil {
		authUser.SchoolName = profile.SchoolName
	}

	return &dto.AuthResponse{
		Message:   message,
		User:      authUser,
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *authService) indexUser(user *entity.User) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexUser(user); err != nil {
		log.Printf("Failed to index user %s: %v", user.Email, err)
	}
}
