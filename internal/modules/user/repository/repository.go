package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// InfoChanges lists the profile fields updateUserInfo may touch; empty values are left alone.
type InfoChanges struct {
	NewEmail   string
	FirstName  string
	LastName   string
	SchoolName string
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindProfile(ctx context.Context, email string) (*commonDto.UserProfile, error)
	FindProfiles(ctx context.Context, emails []string) ([]commonDto.UserProfile, error)
	FindByRoles(ctx context.Context, roles ...string) ([]commonDto.UserProfile, error)
	Search(ctx context.Context, query string, limit int) ([]commonDto.UserProfile, error)
	Create(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, email, role string) error
	UpdateColor(ctx context.Context, email, color string) error
	Delete(ctx context.Context, email string) error
	UpdateInfo(ctx context.Context, email string, changes InfoChanges) error
	EachBatch(ctx context.Context, size int, fn func([]entity.User) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

const profileColumns = `u.email, u.first_name, u.last_name, s.name AS school_name,
	u.role, u.color, u.profile_pic_link`

func (r *userRepository) profiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users AS u").
		Select(profileColumns).
		Joins("LEFT JOIN schools s ON s.id = u.school_id")
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &user, nil
}

func (r *userRepository) FindProfile(ctx context.Context, email string) (*commonDto.UserProfile, error) {
	var profiles []commonDto.UserProfile
	if err := r.profiles(ctx).Where("u.email = ?", email).Limit(1).Scan(&profiles).Error; err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, database.MapError(gorm.ErrRecordNotFound)
	}
	return &profiles[0], nil
}

// FindProfiles preserves the order of emails, skipping unknown ones.
func (r *userRepository) FindProfiles(ctx context.Context, emails []string) ([]commonDto.UserProfile, error) {
	if len(emails) == 0 {
		return []commonDto.UserProfile{}, nil
	}

	var rows []commonDto.UserProfile
	if err := r.profiles(ctx).Where("u.email IN ?", emails).Scan(&rows).Error; err != nil {
		return nil, err
	}

	byEmail := make(map[string]commonDto.UserProfile, len(rows))
	for _, row := range rows {
		byEmail[row.Email] = row
	}
	out := make([]commonDto.UserProfile, 0, len(rows))
	for _, email := range emails {
		if p, ok := byEmail[email]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *userRepository) FindByRoles(ctx context.Context, roles ...string) ([]commonDto.UserProfile, error) {
	var rows []commonDto.UserProfile
	err := r.profiles(ctx).
		Where("u.role IN ?", roles).
		Order("u.last_name ASC, u.first_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]commonDto.UserProfile, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []commonDto.UserProfile
	err := r.profiles(ctx).
		Where("LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.first_name || ' ' || u.last_name) LIKE ?",
			pattern, pattern, pattern).
		Order("u.first_name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return database.MapError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) UpdateRole(ctx context.Context, email, role string) error {
	return r.updateColumn(ctx, email, "role", role)
}

func (r *userRepository) UpdateColor(ctx context.Context, email, color string) error {
	return r.updateColumn(ctx, email, "color", color)
}

func (r *userRepository) updateColumn(ctx context.Context, email, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes the account together with every row keyed by its email.
func (r *userRepository) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("email = ?", email).Delete(&entity.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.MapError(gorm.ErrRecordNotFound)
		}

		cleanups := []struct {
			model any
			where string
		}{
			{&entity.CommunityMember{}, "email = ?"},
			{&entity.PostLike{}, "email = ?"},
			{&entity.Friend{}, "friender = ? OR friendee = ?"},
			{&entity.Mute{}, "muter = ? OR mutee = ?"},
			{&entity.Block{}, "blocker = ? OR blockee = ?"},
			{&entity.PrivateSpaceMember{}, "email = ?"},
			{&entity.PrivateSpaceInvitation{}, "invitee_email = ? AND status = 'pending'"},
		}
		for _, c := range cleanups {
			args := []any{email}
			if strings.Count(c.where, "?") == 2 {
				args = append(args, email)
			}
			if err := tx.Where(c.where, args...).Delete(c.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EachBatch walks every account in primary key order, size rows at a time.
func (r *userRepository) EachBatch(ctx context.Context, size int, fn func([]entity.User) error) error {
	var batch []entity.User
	return r.db.WithContext(ctx).FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// UpdateInfo applies profile changes and, when the email changes, rewrites
// every table that references the account by email in the same transaction.
func (r *userRepository) UpdateInfo(ctx context.Context, email string, changes InfoChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return database.MapError(err)
		}

		updates := map[string]any{}
		if changes.FirstName != "" {
			updates["first_name"] = changes.FirstName
		}
		if changes.LastName != "" {
			updates["last_name"] = changes.LastName
		}
		if changes.SchoolName != "" {
			school, err := findOrCreateSchool(tx, changes.SchoolName)
			if err != nil {
				return err
			}
			updates["school_id"] = school.ID
		}

		newEmail := changes.NewEmail
		if newEmail == email {
			newEmail = ""
		}
		if newEmail != "" {
			updates["email"] = newEmail
		}

		if len(updates) > 0 {
			if err := tx.Model(&entity.User{}).Where("email = ?", email).Updates(updates).Error; err != nil {
				return database.MapError(err)
			}
		}
		if newEmail == "" {
			return nil
		}
		if err := renameReferences(tx, email, newEmail); err != nil {
			return database.MapError(err)
		}
		return renameConversationMember(tx, email, newEmail)
	})
}

func findOrCreateSchool(tx *gorm.DB, name string) (*entity.School, error) {
	name = strings.TrimSpace(name)

	var school entity.School
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&school).Error
	if err == nil {
		return &school, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	school = entity.School{Name: name}
	if err := tx.Create(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func renameReferences(tx *gorm.DB, oldEmail, newEmail string) error {
	refs := []struct {
		model  any
		column string
	}{
		{&entity.CommunityMember{}, "email"},
		{&entity.Post{}, "email"},
		{&entity.PostLike{}, "email"},
		{&entity.Comment{}, "email"},
		{&entity.Message{}, "sender"},
		{&entity.Friend{}, "friender"},
		{&entity.Friend{}, "friendee"},
		{&entity.Mute{}, "muter"},
		{&entity.Mute{}, "mutee"},
		{&entity.Block{}, "blocker"},
		{&entity.Block{}, "blockee"},
		{&entity.PrivateSpace{}, "creator_email"},
		{&entity.PrivateSpaceMember{}, "email"},
		{&entity.PrivateSpaceInvitation{}, "inviter_email"},
		{&entity.PrivateSpaceInvitation{}, "invitee_email"},
		{&entity.PrivateSpacePost{}, "email"},
		{&entity.PrivateSpacePostComment{}, "email"},
	}
	for _, ref := range refs {
		if err := tx.Model(ref.model).
			Where(ref.column+" = ?", oldEmail).
			Update(ref.column, newEmail).Error; err != nil {
			return err
		}
	}
	return nil
}

func renameConversationMember(tx *gorm.DB, oldEmail, newEmail string) error {
	var conversations []entity.Conversation
	if err := tx.Where("member_key LIKE ?", "%"+oldEmail+"%").Find(&conversations).Error; err != nil {
		return err
	}

	for _, conv := range conversations {
		if !conv.HasMember(oldEmail) {
			continue
		}
		members := make([]string, 0, len(conv.Members))
		for _, m := range conv.Members {
			if m == oldEmail {
				m = newEmail
			}
			members = append(members, m)
		}
		members = entity.CanonicalMembers(members)

		if err := tx.Model(&entity.Conversation{}).Where("id = ?", conv.ID).Updates(map[string]any{
			"members":    pq.StringArray(members),
			"member_key": entity.MemberKey(members),
		}).Error; err != nil {
			return database.MapError(err)
		}
	}
	return nil
}
