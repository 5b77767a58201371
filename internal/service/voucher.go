package service

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voucherwall/internal/metrics"
	"voucherwall/internal/model"
)

const (
	// insertBatchSize bounds each transactional scope during bulk insertion.
	insertBatchSize = 5000
	// insertChunkSize is rows per INSERT statement inside a sub-batch,
	// keeping SQLite bind variables well under the limit.
	insertChunkSize = 500
	// maxGenerateRetries caps the backfill rounds after collision losses.
	maxGenerateRetries = 3
	// exportLimit bounds a full-campaign export.
	exportLimit = 500000
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

type VoucherPage struct {
	Vouchers   []model.Voucher `json:"vouchers"`
	Pagination Pagination      `json:"pagination"`
}

type VoucherService struct {
	db  *gorm.DB
	gen *CodeGenerator
}

func NewVoucherService(db *gorm.DB, gen *CodeGenerator) *VoucherService {
	return &VoucherService{db: db, gen: gen}
}

// InsertBatch persists candidate codes as vouchers for a campaign and returns
// how many rows were actually inserted. A code that already exists anywhere
// in the table is dropped by the database via the unique index plus
// ON CONFLICT DO NOTHING; there is deliberately no existence pre-check, which
// would race under concurrent generation requests. Codes are split into
// sub-batches, each committed in its own transaction, and a failed sub-batch
// is logged and skipped so the rest can proceed.
func (s *VoucherService) InsertBatch(campaignID uint, codes []string) int64 {
	var inserted int64
	for start := 0; start < len(codes); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(codes) {
			end = len(codes)
		}

		rows := make([]model.Voucher, end-start)
		for i, code := range codes[start:end] {
			rows[i] = model.Voucher{CampaignID: campaignID, Code: code}
		}

		var n int64
		err := s.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				CreateInBatches(&rows, insertChunkSize)
			if res.Error != nil {
				return res.Error
			}
			n = res.RowsAffected
			return nil
		})
		if err != nil {
			zap.L().Error("voucher sub-batch insert failed",
				zap.Uint("campaign_id", campaignID),
				zap.Int("offset", start),
				zap.Int("size", end-start),
				zap.Error(err))
			continue
		}
		inserted += n
	}
	return inserted
}

// Generate drives generate+insert rounds until count vouchers are stored for
// the campaign or the retry budget runs out. Each round regenerates only the
// shortfall, since part of any batch may collide with stored codes and be
// dropped. Falling short after the final retry is a degraded success: the
// achieved total is returned without error and the caller decides whether it
// is acceptable. Campaign existence is the caller's check, not done here.
func (s *VoucherService) Generate(campaignID uint, count int) (int64, error) {
	start := time.Now()
	result := "partial"
	defer func() {
		metrics.RecordGenerationDuration(result, time.Since(start).Seconds())
	}()

	remaining := count
	var total int64
	for retries := 0; remaining > 0 && retries <= maxGenerateRetries; retries++ {
		codes, err := s.gen.Batch(remaining)
		if err != nil {
			return total, fmt.Errorf("generate codes: %w", err)
		}

		inserted := s.InsertBatch(campaignID, codes)
		remaining -= int(inserted)
		total += inserted

		metrics.AddVouchersInserted(float64(inserted))
		if dropped := int64(len(codes)) - inserted; dropped > 0 {
			metrics.AddCodeCollisions(float64(dropped))
		}
	}

	if remaining == 0 {
		result = "success"
	} else {
		zap.L().Warn("voucher generation fulfilled partially",
			zap.Uint("campaign_id", campaignID),
			zap.Int("requested", count),
			zap.Int64("inserted", total))
	}
	return total, nil
}

// List returns one page of a campaign's vouchers with display-prefixed codes.
func (s *VoucherService) List(campaignID uint, prefix string, page, limit int) (*VoucherPage, error) {
	q := s.db.Model(&model.Voucher{}).Where("campaign_id = ?", campaignID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []model.Voucher
	if err := q.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	applyPrefix(items, prefix)

	return &VoucherPage{Vouchers: items, Pagination: paginate(page, limit, total)}, nil
}

// Export returns up to exportLimit vouchers for a campaign with the columns
// a CSV export needs, codes display-prefixed.
func (s *VoucherService) Export(campaignID uint, prefix string) ([]model.Voucher, error) {
	var items []model.Voucher
	err := s.db.Model(&model.Voucher{}).
		Select("id", "code", "is_used", "used_at", "created_at").
		Where("campaign_id = ?", campaignID).
		Order("id ASC").
		Limit(exportLimit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	applyPrefix(items, prefix)
	return items, nil
}

// applyPrefix rewrites codes as "{prefix}-{code}" for display. Every read
// path that surfaces vouchers goes through this; the stored column stays raw.
func applyPrefix(vouchers []model.Voucher, prefix string) {
	for i := range vouchers {
		vouchers[i].Code = fmt.Sprintf("%s-%s", prefix, vouchers[i].Code)
	}
}
