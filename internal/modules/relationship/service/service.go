package relationship

import (
	"context"
	"errors"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
)

type RelationshipService interface {
	Friend(ctx context.Context, friender, friendee string) error
	Unfriend(ctx context.Context, friender, friendee string) error
	HasFriended(ctx context.Context, friender, friendee string) (bool, error)
	Friends(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
	SentRequests(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
	PendingRequests(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)

	Mute(ctx context.Context, muter, mutee string) error
	Unmute(ctx context.Context, muter, mutee string) error
	HasMuted(ctx context.Context, muter, mutee string) (bool, error)
	Mutes(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)

	Block(ctx context.Context, blocker, blockee string) error
	Unblock(ctx context.Context, blocker, blockee string) error
	HasBlocked(ctx context.Context, blocker, blockee string) (bool, error)
	Blocks(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
}

type relationshipService struct {
	repo repository.RelationshipRepository
}

func NewRelationshipService(repo repository.RelationshipRepository) RelationshipService {
	return &relationshipService{repo: repo}
}

// verb names the action in error messages, e.g. "friend".
func (s *relationshipService) checkPair(ctx context.Context, from, to, verb string) (string, string, error) {
	from, to = entity.NormalizeEmail(from), entity.NormalizeEmail(to)
	if from == "" || to == "" {
		return "", "", apperror.BadRequest("Both emails are required")
	}
	if from == to {
		return "", "", apperror.BadRequest("You cannot " + verb + " yourself")
	}

	exists, err := s.repo.UserExists(ctx, to)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", apperror.NotFound("User not found")
	}
	return from, to, nil
}

func (s *relationshipService) Friend(ctx context.Context, friender, friendee string) error {
	friender, friendee, err := s.checkPair(ctx, friender, friendee, "friend")
	if err != nil {
		return err
	}

	err = s.repo.InsertFriendUnlessBlocked(ctx, friender, friendee)
	switch {
	case errors.Is(err, repository.ErrBlocked):
		return apperror.Forbidden("Cannot friend user")
	case errors.Is(err, apperror.ErrConflict):
		return apperror.Conflict("You have already friended this user")
	}
	return err
}

func (s *relationshipService) Unfriend(ctx context.Context, friender, friendee string) error {
	return s.remove(ctx, repository.KindFriend, friender, friendee, "Friendship not found")
}

func (s *relationshipService) HasFriended(ctx context.Context, friender, friendee string) (bool, error) {
	return s.repo.Exists(ctx, repository.KindFriend, entity.NormalizeEmail(friender), entity.NormalizeEmail(friendee))
}

func (s *relationshipService) Friends(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	return s.repo.ListFriends(ctx, entity.NormalizeEmail(email))
}

func (s *relationshipService) SentRequests(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	return s.repo.ListSent(ctx, entity.NormalizeEmail(email))
}

func (s *relationshipService) PendingRequests(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	return s.repo.ListPending(ctx, entity.NormalizeEmail(email))
}

func (s *relationshipService) Mute(ctx context.Context, muter, mutee string) error {
	return s.add(ctx, repository.KindMute, muter, mutee, "mute", "You have already muted this user")
}

func (s *relationshipService) Unmute(ctx context.Context, muter, mutee string) error {
	return s.remove(ctx, repository.KindMute, muter, mutee, "Mute relationship not found")
}

func (s *relationshipService) HasMuted(ctx context.Context, muter, mutee string) (bool, error) {
	return s.repo.Exists(ctx, repository.KindMute, entity.NormalizeEmail(muter), entity.NormalizeEmail(mutee))
}

func (s *relationshipService) Mutes(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	return s.repo.ListTargets(ctx, repository.KindMute, entity.NormalizeEmail(email))
}

func (s *relationshipService) Block(ctx context.Context, blocker, blockee string) error {
	return s.add(ctx, repository.KindBlock, blocker, blockee, "block", "You have already blocked this user")
}

func (s *relationshipService) Unblock(ctx context.Context, blocker, blockee string) error {
	return s.remove(ctx, repository.KindBlock, blocker, blockee, "Block relationship not found")
}

func (s *relationshipService) HasBlocked(ctx context.Context, blocker, blockee string) (bool, error) {
	return s.repo.Exists(ctx, repository.KindBlock, entity.NormalizeEmail(blocker), entity.NormalizeEmail(blockee))
}

func (s *relationshipService) Blocks(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	return s.repo.ListTargets(ctx, repository.KindBlock, entity.NormalizeEmail(email))
}

func (s *relationshipService) add(ctx context.Context, kind repository.Kind, from, to, verb, duplicateMessage string) error {
	from, to, err := s.checkPair(ctx, from, to, verb)
	if err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, kind, from, to); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return apperror.Conflict(duplicateMessage)
		}
		return err
	}
	return nil
}

func (s *relationshipService) remove(ctx context.Context, kind repository.Kind, from, to, notFoundMessage string) error {
	err := s.repo.Delete(ctx, kind, entity.NormalizeEmail(from), entity.NormalizeEmail(to))
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(notFoundMessage)
	}
	return err
}
