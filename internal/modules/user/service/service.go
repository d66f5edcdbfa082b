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
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	searchLimit      = 25
	reindexBatchSize = 500
)

type UserService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.CreatedUserResponse, error)
	ListApproved(ctx context.Context) ([]commonDto.UserProfile, error)
	ListPending(ctx context.Context) ([]commonDto.UserProfile, error)
	Approve(ctx context.Context, email string) error
	Promote(ctx context.Context, email string) error
	ChangeColor(ctx context.Context, email, color string) error
	Delete(ctx context.Context, email string) error
	Search(ctx context.Context, query string) ([]commonDto.UserProfile, error)
	GetProfile(ctx context.Context, email string) (*commonDto.UserProfile, error)
	UpdateInfo(ctx context.Context, email string, input dto.UpdateUserInfoInput) (*dto.UpdateUserInfoResponse, error)
	ReindexAll(ctx context.Context) (int, error)
}

type userService struct {
	repo   repository.UserRepository
	tokens *token.Manager
	index  search.UserIndex
}

func NewUserService(repo repository.UserRepository, tokens *token.Manager, index search.UserIndex) UserService {
	return &userService{repo: repo, tokens: tokens, index: index}
}

// CreateUser provisions an approved account on behalf of an admin and returns its one-time password.
func (s *userService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.CreatedUserResponse, error) {
	temporary := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hashed, err := bcrypt.GenerateFromPassword([]byte(temporary), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	schoolID := input.SchoolID
	if schoolID == 0 {
		schoolID = entity.DefaultSchoolID
	}

	user := &entity.User{
		Email:     entity.NormalizeEmail(input.Email),
		FirstName: strings.TrimSpace(input.FName),
		LastName:  strings.TrimSpace(input.LName),
		Password:  string(hashed),
		SchoolID:  schoolID,
		Role:      entity.RoleApproved,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("A user with this email already exists")
		}
		return nil, err
	}
	s.reindex(user.Email)

	profile, err := s.repo.FindProfile(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.CreatedUserResponse{
		Message:           "User created successfully",
		User:              *profile,
		TemporaryPassword: temporary,
	}, nil
}

func (s *userService) ListApproved(ctx context.Context) ([]commonDto.UserProfile, error) {
	return s.repo.FindByRoles(ctx, entity.RoleApproved, entity.RoleAdmin)
}

func (s *userService) ListPending(ctx context.Context) ([]commonDto.UserProfile, error) {
	return s.repo.FindByRoles(ctx, entity.RolePending, entity.RoleGuest)
}

func (s *userService) Approve(ctx context.Context, email string) error {
	return s.setRole(ctx, email, entity.RoleApproved)
}

func (s *userService) Promote(ctx context.Context, email string) error {
	return s.setRole(ctx, email, entity.RoleAdmin)
}

func (s *userService) setRole(ctx context.Context, email, role string) error {
	email = entity.NormalizeEmail(email)
	if err := s.repo.UpdateRole(ctx, email, role); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}
	s.reindex(email)
	return nil
}

func (s *userService) ChangeColor(ctx context.Context, email, color string) error {
	if err := s.repo.UpdateColor(ctx, email, strings.TrimSpace(color)); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if err := s.repo.Delete(ctx, email); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}

	if s.index != nil {
		if err := s.index.RemoveUser(email); err != nil {
			log.Printf("Failed to remove user %s from index: %v", email, err)
		}
	}
	return nil
}

// Search asks the search index first and falls back to a LIKE scan when the
// index is missing, unavailable or has no hits.
func (s *userService) Search(ctx context.Context, query string) ([]commonDto.UserProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.BadRequest("Search query is required")
	}

	if s.index != nil {
		emails, err := s.index.SearchUserEmails(query, searchLimit)
		switch {
		case err != nil:
			log.Printf("User search index unavailable, falling back to database: %v", err)
		case len(emails) > 0:
			return s.repo.FindProfiles(ctx, emails)
		}
	}
	return s.repo.Search(ctx, query, searchLimit)
}

func (s *userService) GetProfile(ctx context.Context, email string) (*commonDto.UserProfile, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, apperror.BadRequest("Email is required")
	}

	profile, err := s.repo.FindProfile(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateInfo changes profile fields. A changed email is propagated to every
// referencing row and a fresh token is issued for the new identity.
func (s *userService) UpdateInfo(ctx context.Context, email string, input dto.UpdateUserInfoInput) (*dto.UpdateUserInfoResponse, error) {
	changes := repository.InfoChanges{
		NewEmail:   entity.NormalizeEmail(input.NewEmail),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		SchoolName: strings.TrimSpace(input.SchoolName),
	}

	if err := s.repo.UpdateInfo(ctx, email, changes); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return nil, apperror.NotFound("User not found")
		case errors.Is(err, apperror.ErrConflict):
			return nil, apperror.Conflict("Email is already in use")
		}
		return nil, err
	}

	current := email
	if changes.NewEmail != "" && changes.NewEmail != email {
		current = changes.NewEmail
		if s.index != nil {
			if err := s.index.RemoveUser(email); err != nil {
				log.Printf("Failed to remove user %s from index: %v", email, err)
			}
		}
	}
	s.reindex(current)

	user, err := s.repo.FindByEmail(ctx, current)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfile(ctx, current)
	if err != nil {
		return nil, err
	}

	resp := &dto.UpdateUserInfoResponse{
		Message: "User information updated successfully.",
		User:    *profile,
	}
	if current != email {
		signed, _, err := s.tokens.Generate(user.Email, user.Role)
		if err != nil {
			return nil, err
		}
		resp.Token = signed
	}
	return resp, nil
}

// ReindexAll copies every stored account into the search index and reports how many were sent.
func (s *userService) ReindexAll(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	total := 0
	err := s.repo.EachBatch(ctx, reindexBatchSize, func(users []entity.User) error {
		if err := s.index.IndexUsers(users); err != nil {
			return err
		}
		total += len(users)
		return nil
	})
	return total, err
}

func (s *userService) reindex(email string) {
	if s.index == nil {
		return
	}
	user, err := s.repo.FindByEmail(context.Background(), email)
	if err != nil {
		log.Printf("Failed to load user %s for indexing: %v", email, err)
		return
	}
	if err := s.index.IndexUser(user); err != nil {
		log.Printf("Failed to index user %s: %v", email, err)
	}
}
