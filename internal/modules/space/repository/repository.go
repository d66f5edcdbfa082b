package repository

import (
	"context"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"gorm.io/gorm"
)

type SpaceRepository interface {
	// CreateWithCreator stores the space and its creator as admin in one transaction.
	CreateWithCreator(ctx context.Context, space *entity.PrivateSpace) error
	FindByID(ctx context.Context, spaceID uint) (*entity.PrivateSpace, error)
	// MemberRole returns "" when email is not a member of the space.
	MemberRole(ctx context.Context, spaceID uint, email string) (string, error)
	ListForUser(ctx context.Context, email string) ([]dto.SpaceSummary, error)
	Details(ctx context.Context, spaceID uint) (*dto.SpaceDetails, error)
	Members(ctx context.Context, spaceID uint) ([]dto.SpaceMemberRow, error)
	RemoveMember(ctx context.Context, spaceID uint, email string) error
	UserExists(ctx context.Context, email string) (bool, error)

	HasPendingInvitation(ctx context.Context, spaceID uint, invitee string) (bool, error)
	CreateInvitation(ctx context.Context, invitation *entity.PrivateSpaceInvitation) error
	FindPendingInvitation(ctx context.Context, invitationID uint, invitee string) (*entity.PrivateSpaceInvitation, error)
	// AcceptInvitation adds the invitee as a member and closes the invitation in one transaction.
	AcceptInvitation(ctx context.Context, invitation *entity.PrivateSpaceInvitation) error
	DeclineInvitation(ctx context.Context, invitationID uint, invitee string) error
	PendingInvitations(ctx context.Context, invitee string) ([]dto.InvitationRow, error)
	InvitableUsers(ctx context.Context, spaceID uint, search string, limit int) ([]dto.InvitableUser, error)

	CreatePost(ctx context.Context, post *entity.PrivateSpacePost) error
	FindPost(ctx context.Context, postID uint) (*entity.PrivateSpacePost, error)
	ListPosts(ctx context.Context, spaceID uint, limit, offset int) ([]dto.SpacePostRow, error)
	DeletePost(ctx context.Context, postID uint) error
	CreateComment(ctx context.Context, comment *entity.PrivateSpacePostComment) error
	ListComments(ctx context.Context, postID uint) ([]dto.SpaceCommentRow, error)

	// Dissolve deletes comments, posts, invitations, members and the space, all or nothing.
	Dissolve(ctx context.Context, spaceID uint) error
}

type spaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepository{db: db}
}

func (r *spaceRepository) CreateWithCreator(ctx context.Context, space *entity.PrivateSpace) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return err
		}
		return tx.Create(&entity.PrivateSpaceMember{
			SpaceID: space.SpaceID,
			Email:   space.CreatorEmail,
			Role:    entity.SpaceRoleAdmin,
		}).Error
	})
}

func (r *spaceRepository) FindByID(ctx context.Context, spaceID uint) (*entity.PrivateSpace, error) {
	var space entity.PrivateSpace
	if err := r.db.WithContext(ctx).Where("space_id = ?", spaceID).First(&space).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &space, nil
}

func (r *spaceRepository) MemberRole(ctx context.Context, spaceID uint, email string) (string, error) {
	var roles []string
	err := r.db.WithContext(ctx).Model(&entity.PrivateSpaceMember{}).
		Where("space_id = ? AND email = ?", spaceID, email).
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil || len(roles) == 0 {
		return "", err
	}
	return roles[0], nil
}

func (r *spaceRepository) ListForUser(ctx context.Context, email string) ([]dto.SpaceSummary, error) {
	rows := []dto.SpaceSummary{}
	err := r.db.WithContext(ctx).
		Table("private_spaces AS ps").
		Select(`ps.space_id, ps.name, ps.description, ps.avatar_url, ps.creator_email, ps.created_at,
			psm.role AS user_role,
			(SELECT COUNT(*) FROM private_space_members m WHERE m.space_id = ps.space_id) AS member_count,
			(SELECT COUNT(*) FROM private_space_posts p WHERE p.space_id = ps.space_id) AS post_count`).
		Joins("JOIN private_space_members psm ON psm.space_id = ps.space_id AND psm.email = ?", email).
		Order("ps.created_at DESC, ps.space_id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *spaceRepository) Details(ctx context.Context, spaceID uint) (*dto.SpaceDetails, error) {
	var rows []dto.SpaceDetails
	err := r.db.WithContext(ctx).
		Table("private_spaces AS ps").
		Select(`ps.space_id, ps.name, ps.description, ps.avatar_url, ps.creator_email, ps.created_at,
			COALESCE(u.first_name || ' ' || u.last_name, ps.creator_email) AS creator_name,
			(SELECT COUNT(*) FROM private_space_members m WHERE m.space_id = ps.space_id) AS member_count`).
		Joins("LEFT JOIN users u ON u.email = ps.creator_email").
		Where("ps.space_id = ?", spaceID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.MapError(gorm.ErrRecordNotFound)
	}
	return &rows[0], nil
}

func (r *spaceRepository) Members(ctx context.Context, spaceID uint) ([]dto.SpaceMemberRow, error) {
	rows := []dto.SpaceMemberRow{}
	err := r.db.WithContext(ctx).
		Table("private_space_members AS psm").
		Select(`psm.email, psm.role, psm.joined_at,
			u.first_name || ' ' || u.last_name AS name, u.profile_pic_link AS avatar`).
		Joins("JOIN users u ON u.email = psm.email").
		Where("psm.space_id = ?", spaceID).
		// "admin" sorts before "member"
		Order("psm.role ASC, psm.joined_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *spaceRepository) RemoveMember(ctx context.Context, spaceID uint, email string) error {
	res := r.db.WithContext(ctx).
		Where("space_id = ? AND email = ?", spaceID, email).
		Delete(&entity.PrivateSpaceMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *spaceRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *spaceRepository) HasPendingInvitation(ctx context.Context, spaceID uint, invitee string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PrivateSpaceInvitation{}).
		Where("space_id = ? AND invitee_email = ? AND status = ?", spaceID, invitee, entity.InvitationPending).
		Count(&count).Error
	return count > 0, err
}

func (r *spaceRepository) CreateInvitation(ctx context.Context, invitation *entity.PrivateSpaceInvitation) error {
	return database.MapError(r.db.WithContext(ctx).Create(invitation).Error)
}

func (r *spaceRepository) FindPendingInvitation(ctx context.Context, invitationID uint, invitee string) (*entity.PrivateSpaceInvitation, error) {
	var invitation entity.PrivateSpaceInvitation
	err := r.db.WithContext(ctx).
		Where("invitation_id = ? AND invitee_email = ? AND status = ?", invitationID, invitee, entity.InvitationPending).
		First(&invitation).Error
	if err != nil {
		return nil, database.MapError(err)
	}
	return &invitation, nil
}

func (r *spaceRepository) AcceptInvitation(ctx context.Context, invitation *entity.PrivateSpaceInvitation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := entity.PrivateSpaceMember{
			SpaceID: invitation.SpaceID,
			Email:   invitation.InviteeEmail,
			Role:    entity.SpaceRoleMember,
		}
		if err := tx.Create(&member).Error; err != nil {
			return database.MapError(err)
		}

		now := time.Now()
		res := tx.Model(&entity.PrivateSpaceInvitation{}).
			Where("invitation_id = ? AND status = ?", invitation.InvitationID, entity.InvitationPending).
			Updates(map[string]any{"status": entity.InvitationAccepted, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// answered concurrently
			return database.MapError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *spaceRepository) DeclineInvitation(ctx context.Context, invitationID uint, invitee string) error {
	res := r.db.WithContext(ctx).Model(&entity.PrivateSpaceInvitation{}).
		Where("invitation_id = ? AND invitee_email = ? AND status = ?", invitationID, invitee, entity.InvitationPending).
		Updates(map[string]any{"status": entity.InvitationDeclined, "responded_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *spaceRepository) PendingInvitations(ctx context.Context, invitee string) ([]dto.InvitationRow, error) {
	rows := []dto.InvitationRow{}
	err := r.db.WithContext(ctx).
		Table("private_space_invitations AS psi").
		Select(`psi.invitation_id, psi.space_id, psi.inviter_email, psi.created_at,
			ps.name AS space_name, ps.description AS space_description,
			COALESCE(u.first_name || ' ' || u.last_name, psi.inviter_email) AS inviter_name`).
		Joins("JOIN private_spaces ps ON ps.space_id = psi.space_id").
		Joins("LEFT JOIN users u ON u.email = psi.inviter_email").
		Where("psi.invitee_email = ? AND psi.status = ?", invitee, entity.InvitationPending).
		Order("psi.created_at DESC, psi.invitation_id DESC").
		Scan(&rows).Error
	return rows, err
}

// InvitableUsers lists approved users who are neither members nor pending invitees.
// A non-empty search matches full name or email case-insensitively.
func (r *spaceRepository) InvitableUsers(ctx context.Context, spaceID uint, search string, limit int) ([]dto.InvitableUser, error) {
	members := r.db.Model(&entity.PrivateSpaceMember{}).Select("email").Where("space_id = ?", spaceID)
	invited := r.db.Model(&entity.PrivateSpaceInvitation{}).Select("invitee_email").
		Where("space_id = ? AND status = ?", spaceID, entity.InvitationPending)

	q := r.db.WithContext(ctx).
		Table("users AS u").
		Select(`u.email, u.first_name, u.last_name, u.first_name || ' ' || u.last_name AS name,
			u.profile_pic_link AS avatar, s.name AS school_name`).
		Joins("LEFT JOIN schools s ON s.id = u.school_id").
		Where("u.role = ?", entity.RoleApproved).
		Where("u.email NOT IN (?)", members).
		Where("u.email NOT IN (?)", invited)

	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE LOWER(?) OR LOWER(u.email) LIKE LOWER(?))", pattern, pattern)
	}

	rows := []dto.InvitableUser{}
	err := q.Order("u.first_name ASC, u.last_name ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *spaceRepository) CreatePost(ctx context.Context, post *entity.PrivateSpacePost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *spaceRepository) FindPost(ctx context.Context, postID uint) (*entity.PrivateSpacePost, error) {
	var post entity.PrivateSpacePost
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&post).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &post, nil
}

func (r *spaceRepository) ListPosts(ctx context.Context, spaceID uint, limit, offset int) ([]dto.SpacePostRow, error) {
	rows := []dto.SpacePostRow{}
	err := r.db.WithContext(ctx).
		Table("private_space_posts AS psp").
		Select(`psp.post_id, psp.space_id, psp.email, psp.content, psp.file_url, psp.created_at,
			u.first_name || ' ' || u.last_name AS author_name, u.profile_pic_link AS author_avatar,
			(SELECT COUNT(*) FROM private_space_post_comments c WHERE c.post_id = psp.post_id) AS comment_count`).
		Joins("JOIN users u ON u.email = psp.email").
		Where("psp.space_id = ?", spaceID).
		Order("psp.created_at DESC, psp.post_id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *spaceRepository) DeletePost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&entity.PrivateSpacePostComment{}).Error; err != nil {
			return err
		}
		res := tx.Where("post_id = ?", postID).Delete(&entity.PrivateSpacePost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.MapError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *spaceRepository) CreateComment(ctx context.Context, comment *entity.PrivateSpacePostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *spaceRepository) ListComments(ctx context.Context, postID uint) ([]dto.SpaceCommentRow, error) {
	rows := []dto.SpaceCommentRow{}
	err := r.db.WithContext(ctx).
		Table("private_space_post_comments AS c").
		Select(`c.comment_id, c.post_id, c.email, c.content, c.created_at,
			u.first_name || ' ' || u.last_name AS author_name, u.profile_pic_link AS author_avatar`).
		Joins("JOIN users u ON u.email = c.email").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC, c.comment_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *spaceRepository) Dissolve(ctx context.Context, spaceID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&entity.PrivateSpacePost{}).Select("post_id").Where("space_id = ?", spaceID)
		if err := tx.Where("post_id IN (?)", posts).Delete(&entity.PrivateSpacePostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", spaceID).Delete(&entity.PrivateSpacePost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", spaceID).Delete(&entity.PrivateSpaceInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", spaceID).Delete(&entity.PrivateSpaceMember{}).Error; err != nil {
			return err
		}
		res := tx.Where("space_id = ?", spaceID).Delete(&entity.PrivateSpace{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.MapError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}
