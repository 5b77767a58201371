package service

import (
	"errors"

	"gorm.io/gorm"

	"voucherwall/internal/model"
)

type CampaignPage struct {
	Campaigns  []model.Campaign `json:"campaigns"`
	Pagination Pagination       `json:"pagination"`
}

type CampaignService struct {
	db *gorm.DB
}

func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{db: db}
}

func (s *CampaignService) Create(c *model.Campaign) error {
	return s.db.Create(c).Error
}

// GetByID returns (nil, nil) when no campaign matches, so callers can map
// absence to a 404 without treating it as a query failure.
func (s *CampaignService) GetByID(id uint) (*model.Campaign, error) {
	var c model.Campaign
	err := s.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CampaignService) List(page, limit int) (*CampaignPage, error) {
	var total int64
	if err := s.db.Model(&model.Campaign{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []model.Campaign
	err := s.db.Model(&model.Campaign{}).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &CampaignPage{Campaigns: items, Pagination: paginate(page, limit, total)}, nil
}

// Delete removes a campaign and its vouchers in one transaction, returning
// how many campaign rows matched (0 means not found). Vouchers go with the
// campaign: orphaned rows would keep their codes reserved forever.
func (s *CampaignService) Delete(id uint) (int64, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Campaign{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Where("campaign_id = ?", id).Delete(&model.Voucher{}).Error
	})
	return deleted, err
}
