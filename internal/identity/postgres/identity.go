package postgres

import (
	"context"
	"errors"
	"fmt"

	identityDatamodel "github.com/frahmantamala/performance-dashboard/internal/core/datamodel/identity"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityRepository implements identity.Store using GORM
type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) identity.Store {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) withBadges(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Badges", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	var row identityDatamodel.Identity
	err := r.withBadges(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&row), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	var row identityDatamodel.Identity
	err := r.withBadges(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&row), nil
}

func (r *IdentityRepository) Create(ctx context.Context, i *identity.Identity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&identityDatamodel.Identity{}).Where("email = ?", i.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return identity.ErrDuplicateEmail
		}

		var last int64
		if err := tx.Model(&identityDatamodel.Identity{}).Select("COALESCE(MAX(sort_order), 0)").Scan(&last).Error; err != nil {
			return err
		}

		row := toRow(i)
		row.SortOrder = last + 1
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return identity.ErrDuplicateEmail
			}
			return fmt.Errorf("create identity: %w", err)
		}
		return nil
	})
}

// Update rewrites the identity row and replaces its badge list.
func (r *IdentityRepository) Update(ctx context.Context, i *identity.Identity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing identityDatamodel.Identity
		if err := tx.Select("id", "sort_order", "created_at").Where("id = ?", i.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return identity.ErrNotFound
			}
			return err
		}

		row := toRow(i)
		row.SortOrder = existing.SortOrder
		row.CreatedAt = existing.CreatedAt
		if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
			return fmt.Errorf("update identity: %w", err)
		}

		if err := tx.Where("identity_id = ?", i.ID).Delete(&identityDatamodel.IdentityBadge{}).Error; err != nil {
			return err
		}
		if len(row.Badges) > 0 {
			if err := tx.Create(&row.Badges).Error; err != nil {
				return fmt.Errorf("update identity badges: %w", err)
			}
		}
		return nil
	})
}

func (r *IdentityRepository) List(ctx context.Context) ([]*identity.Identity, error) {
	var rows []*identityDatamodel.Identity
	if err := r.withBadges(ctx).Order("sort_order ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*identity.Identity, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func toRow(i *identity.Identity) *identityDatamodel.Identity {
	row := &identityDatamodel.Identity{
		ID:         i.ID,
		Username:   i.Username,
		Email:      i.Email,
		FirstName:  i.FirstName,
		LastName:   i.LastName,
		Role:       string(i.Role),
		Department: i.Department,
		Position:   i.Position,
		AvatarURL:  i.AvatarURL,
		Level:      i.Level,
		XP:         i.XP,
		JoinedAt:   i.JoinedAt,
		ManagerID:  i.ManagerID,
	}
	for n, b := range i.Badges {
		row.Badges = append(row.Badges, identityDatamodel.IdentityBadge{
			IdentityID:  i.ID,
			BadgeID:     b.ID,
			Position:    n,
			Name:        b.Name,
			Description: b.Description,
			ImageURL:    b.ImageURL,
			Category:    b.Category,
			Rarity:      b.Rarity,
			XPReward:    b.XPReward,
			UnlockedAt:  b.UnlockedAt,
		})
	}
	return row
}

func toDomain(row *identityDatamodel.Identity) *identity.Identity {
	i := &identity.Identity{
		ID:         row.ID,
		Username:   row.Username,
		Email:      row.Email,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Role:       identity.Role(row.Role),
		Department: row.Department,
		Position:   row.Position,
		AvatarURL:  row.AvatarURL,
		Level:      row.Level,
		XP:         row.XP,
		JoinedAt:   row.JoinedAt,
		ManagerID:  row.ManagerID,
	}
	for _, b := range row.Badges {
		i.Badges = append(i.Badges, identity.Badge{
			ID:          b.BadgeID,
			Name:        b.Name,
			Description: b.Description,
			ImageURL:    b.ImageURL,
			Category:    b.Category,
			Rarity:      b.Rarity,
			XPReward:    b.XPReward,
			UnlockedAt:  b.UnlockedAt,
		})
	}
	return i
}
