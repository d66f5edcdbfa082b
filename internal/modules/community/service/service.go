package community

import (
	"context"
	"errors"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/community/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

type CommunityService interface {
	Create(ctx context.Context, name string) (*entity.Community, error)
	List(ctx context.Context) ([]entity.Community, error)
	Name(ctx context.Context, id uint) (string, error)
	Join(ctx context.Context, communityID uint, email string) error
	Leave(ctx context.Context, communityID uint, email string) error
	ListForUser(ctx context.Context, email string) ([]entity.Community, error)
}

type communityService struct {
	repo      repository.CommunityRepository
	sanitizer *sanitize.Sanitizer
}

func NewCommunityService(repo repository.CommunityRepository, sanitizer *sanitize.Sanitizer) CommunityService {
	return &communityService{repo: repo, sanitizer: sanitizer}
}

func (s *communityService) Create(ctx context.Context, name string) (*entity.Community, error) {
	name = strings.TrimSpace(s.sanitizer.Plain(name))
	if name == "" {
		return nil, apperror.BadRequest("Community name is required")
	}

	community := &entity.Community{Name: name}
	if err := s.repo.Create(ctx, community); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("Community already exists!")
		}
		return nil, err
	}
	return community, nil
}

func (s *communityService) List(ctx context.Context) ([]entity.Community, error) {
	return s.repo.FindAll(ctx)
}

func (s *communityService) Name(ctx context.Context, id uint) (string, error) {
	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.NotFound("Community not found")
		}
		return "", err
	}
	return community.Name, nil
}

func (s *communityService) Join(ctx context.Context, communityID uint, email string) error {
	if _, err := s.Name(ctx, communityID); err != nil {
		return err
	}
	if err := s.repo.AddMember(ctx, communityID, email); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return apperror.Conflict("User is already a member of this community")
		}
		return err
	}
	return nil
}

func (s *communityService) Leave(ctx context.Context, communityID uint, email string) error {
	if err := s.repo.RemoveMember(ctx, communityID, email); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("User not found in community")
		}
		return err
	}
	return nil
}

func (s *communityService) ListForUser(ctx context.Context, email string) ([]entity.Community, error) {
	return s.repo.FindByMember(ctx, entity.NormalizeEmail(email))
}
