package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shipping-engine/internal/models"
)

const (
	activeCompaniesCacheKey = "shipping:companies:active"
	companyCacheTTL         = 5 * time.Minute
)

// CompanyRepository handles shipping company and rate table persistence.
// Every write validates the full table first and replaces sub-carriers
// wholesale inside a transaction, so a failed save leaves the previously
// stored configuration untouched and no half-written table can exist.
type CompanyRepository struct {
	db    *gorm.DB
	redis *redis.Client // optional, nil disables caching
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB, redisClient *redis.Client) *CompanyRepository {
	return &CompanyRepository{db: db, redis: redisClient}
}

// ListActive lists active companies with their sub-carriers, cached in
// Redis with delete-on-write invalidation. Cache failures degrade to the
// database, never to an error.
func (r *CompanyRepository) ListActive(ctx context.Context) ([]models.ShippingCompany, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, activeCompaniesCacheKey).Bytes(); err == nil {
			var companies []models.ShippingCompany
			if err := json.Unmarshal(cached, &companies); err == nil {
				return companies, nil
			}
		}
	}

	var companies []models.ShippingCompany
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Preload("SubCarriers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(companies); err == nil {
			if err := r.redis.Set(ctx, activeCompaniesCacheKey, data, companyCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache active companies: %v", err)
			}
		}
	}
	return companies, nil
}

// List lists all companies, active or not, for the administration surface
func (r *CompanyRepository) List(ctx context.Context) ([]models.ShippingCompany, error) {
	var companies []models.ShippingCompany
	err := r.db.WithContext(ctx).
		Preload("SubCarriers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// GetByID gets a company with its sub-carriers by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ShippingCompany, error) {
	var company models.ShippingCompany
	err := r.db.WithContext(ctx).
		Preload("SubCarriers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Create validates and persists a new company with its rate tables
func (r *CompanyRepository) Create(ctx context.Context, company *models.ShippingCompany) error {
	if err := company.Validate(); err != nil {
		return err
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if company.IsDefault {
			if err := tx.Model(&models.ShippingCompany{}).
				Where("is_default = true").
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(company).Error
	})
	if err != nil {
		return err
	}

	r.invalidateCache(ctx)
	return nil
}

// Update validates and replaces a company's configuration atomically.
// Sub-carriers are whole-value replacements: the incoming set overwrites
// the stored set, never a partial field merge. Concurrent edits resolve
// last-writer-wins at the row level.
func (r *CompanyRepository) Update(ctx context.Context, company *models.ShippingCompany) error {
	if err := company.Validate(); err != nil {
		return err
	}
	company.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ShippingCompany
		if err := tx.First(&existing, "id = ?", company.ID).Error; err != nil {
			return fmt.Errorf("company not found: %w", err)
		}

		if company.IsDefault && !existing.IsDefault {
			if err := tx.Model(&models.ShippingCompany{}).
				Where("is_default = true").
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("company_id = ?", company.ID).Delete(&models.SubCarrier{}).Error; err != nil {
			return err
		}
		for i := range company.SubCarriers {
			company.SubCarriers[i].ID = uuid.Nil
			company.SubCarriers[i].CompanyID = company.ID
		}

		return tx.Omit("CreatedAt").Save(company).Error
	})
	if err != nil {
		return err
	}

	r.invalidateCache(ctx)
	return nil
}

// Delete removes a company and its sub-carriers
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.SubCarrier{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShippingCompany{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	r.invalidateCache(ctx)
	return nil
}

// invalidateCache drops the cached active company list after any write
func (r *CompanyRepository) invalidateCache(ctx context.Context) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, activeCompaniesCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate company cache: %v", err)
	}
}
