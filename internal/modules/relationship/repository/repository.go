package repository

import (
	"context"
	"fmt"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"gorm.io/gorm"
)

// Kind selects one of the directed edge tables.
type Kind int

const (
	KindFriend Kind = iota
	KindMute
	KindBlock
)

type edgeTable struct {
	name string
	from string
	to   string
}

var tables = map[Kind]edgeTable{
	KindFriend: {name: "friends", from: "friender", to: "friendee"},
	KindMute:   {name: "mutes", from: "muter", to: "mutee"},
	KindBlock:  {name: "blocks", from: "blocker", to: "blockee"},
}

func newEdge(kind Kind, from, to string) any {
	switch kind {
	case KindMute:
		return &entity.Mute{Muter: from, Mutee: to}
	case KindBlock:
		return &entity.Block{Blocker: from, Blockee: to}
	default:
		return &entity.Friend{Friender: from, Friendee: to}
	}
}

type RelationshipRepository interface {
	Insert(ctx context.Context, kind Kind, from, to string) error
	// InsertFriendUnlessBlocked checks both block directions and inserts in one transaction.
	InsertFriendUnlessBlocked(ctx context.Context, from, to string) error
	Delete(ctx context.Context, kind Kind, from, to string) error
	Exists(ctx context.Context, kind Kind, from, to string) (bool, error)
	ListTargets(ctx context.Context, kind Kind, from string) ([]commonDto.EdgeProfile, error)
	ListFriends(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
	ListSent(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
	ListPending(ctx context.Context, email string) ([]commonDto.EdgeProfile, error)
	UserExists(ctx context.Context, email string) (bool, error)
}

// ErrBlocked is returned when a friend edge would cross a block in either direction.
var ErrBlocked = fmt.Errorf("%w: blocked", apperror.ErrForbidden)

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) Insert(ctx context.Context, kind Kind, from, to string) error {
	return database.MapError(r.db.WithContext(ctx).Create(newEdge(kind, from, to)).Error)
}

func (r *relationshipRepository) InsertFriendUnlessBlocked(ctx context.Context, from, to string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blocked int64
		if err := tx.Model(&entity.Block{}).
			Where("(blocker = ? AND blockee = ?) OR (blocker = ? AND blockee = ?)", from, to, to, from).
			Count(&blocked).Error; err != nil {
			return err
		}
		if blocked > 0 {
			return ErrBlocked
		}
		return database.MapError(tx.Create(&entity.Friend{Friender: from, Friendee: to}).Error)
	})
}

func (r *relationshipRepository) Delete(ctx context.Context, kind Kind, from, to string) error {
	t := tables[kind]
	res := r.db.WithContext(ctx).
		Where(t.from+" = ? AND "+t.to+" = ?", from, to).
		Delete(newEdge(kind, "", ""))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *relationshipRepository) Exists(ctx context.Context, kind Kind, from, to string) (bool, error) {
	t := tables[kind]
	var count int64
	err := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.from+" = ? AND "+t.to+" = ?", from, to).
		Count(&count).Error
	return count > 0, err
}

const edgeColumns = "u.email, u.first_name, u.last_name, u.profile_pic_link, e.created_at"

func (r *relationshipRepository) ListTargets(ctx context.Context, kind Kind, from string) ([]commonDto.EdgeProfile, error) {
	t := tables[kind]
	rows := []commonDto.EdgeProfile{}
	err := r.db.WithContext(ctx).
		Table(t.name + " AS e").
		Select(edgeColumns).
		Joins("JOIN users u ON u.email = e." + t.to).
		Where("e."+t.from+" = ?", from).
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListFriends returns users with edges in both directions.
func (r *relationshipRepository) ListFriends(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	rows := []commonDto.EdgeProfile{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+edgeColumns+`
		FROM friends e
		JOIN users u ON u.email = e.friendee
		WHERE e.friender = ?
		  AND EXISTS (SELECT 1 FROM friends r WHERE r.friender = e.friendee AND r.friendee = e.friender)
		ORDER BY u.first_name ASC`, email).
		Scan(&rows).Error
	return rows, err
}

// ListSent returns users email friended who have not friended back.
func (r *relationshipRepository) ListSent(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	rows := []commonDto.EdgeProfile{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+edgeColumns+`
		FROM friends e
		JOIN users u ON u.email = e.friendee
		WHERE e.friender = ?
		  AND NOT EXISTS (SELECT 1 FROM friends r WHERE r.friender = e.friendee AND r.friendee = e.friender)
		ORDER BY e.created_at DESC`, email).
		Scan(&rows).Error
	return rows, err
}

// ListPending returns users who friended email without a reciprocal edge.
func (r *relationshipRepository) ListPending(ctx context.Context, email string) ([]commonDto.EdgeProfile, error) {
	rows := []commonDto.EdgeProfile{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+edgeColumns+`
		FROM friends e
		JOIN users u ON u.email = e.friender
		WHERE e.friendee = ?
		  AND NOT EXISTS (SELECT 1 FROM friends r WHERE r.friender = e.friendee AND r.friendee = e.friender)
		ORDER BY e.created_at DESC`, email).
		Scan(&rows).Error
	return rows, err
}

func (r *relationshipRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
