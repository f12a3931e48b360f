package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/rbac"
)

// CreateOrganization inserts the organization and its owner membership in
// one transaction; an organization never exists without an owner member.
func (r *GormRepo) CreateOrganization(ctx context.Context, org *models.Organization) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Organization{}).
		Where("slug = ?", org.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		member := models.Membership{
			OrgID:    org.ID,
			UserID:   org.OwnerID,
			Role:     string(rbac.RoleOwner),
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
}

func (r *GormRepo) ListOrganizationsForUser(ctx context.Context, userID uint) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.DB.WithContext(ctx).
		Joins("JOIN memberships ON memberships.org_id = organizations.id").
		Where("memberships.user_id = ?", userID).
		Find(&orgs).Error
	return orgs, err
}

func (r *GormRepo) FindMembership(ctx context.Context, orgID, userID uint) (*models.Membership, error) {
	var m models.Membership
	if err := r.DB.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) ListMembers(ctx context.Context, orgID uint) ([]models.Membership, error) {
	var members []models.Membership
	err := r.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&members).Error
	return members, err
}

func (r *GormRepo) AddMember(ctx context.Context, m *models.Membership) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) UpdateMemberRole(ctx context.Context, orgID, userID uint, role string) error {
	result := r.DB.WithContext(ctx).Model(&models.Membership{}).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) RemoveMember(ctx context.Context, orgID, userID uint) error {
	result := r.DB.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		Delete(&models.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
