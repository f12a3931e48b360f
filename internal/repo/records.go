package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkravets/agency_crm/internal/models"
)

func (r *GormRepo) CreateClient(ctx context.Context, c *models.Client) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) FindClient(ctx context.Context, orgID, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListClients(ctx context.Context, orgID uint) ([]models.Client, error) {
	var out []models.Client
	err := r.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&out).Error
	return out, err
}

func (r *GormRepo) SaveClient(ctx context.Context, c *models.Client) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteClient(ctx context.Context, orgID, id uint) error {
	result := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CreateContract(ctx context.Context, c *models.Contract) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) FindContract(ctx context.Context, orgID, id uint) (*models.Contract, error) {
	var c models.Contract
	if err := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListContracts(ctx context.Context, orgID uint) ([]models.Contract, error) {
	var out []models.Contract
	err := r.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&out).Error
	return out, err
}

func (r *GormRepo) SaveContract(ctx context.Context, c *models.Contract) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteContract(ctx context.Context, orgID, id uint) error {
	result := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).Delete(&models.Contract{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) FindCampaign(ctx context.Context, orgID, id uint) (*models.Campaign, error) {
	var c models.Campaign
	if err := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListCampaigns(ctx context.Context, orgID uint) ([]models.Campaign, error) {
	var out []models.Campaign
	err := r.DB.WithContext(ctx).Where("org_id = ?", orgID).Find(&out).Error
	return out, err
}

func (r *GormRepo) SaveCampaign(ctx context.Context, c *models.Campaign) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCampaign(ctx context.Context, orgID, id uint) error {
	result := r.DB.WithContext(ctx).Where("org_id = ? AND id = ?", orgID, id).Delete(&models.Campaign{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
