package repository

import (
	"context"
	"eduai_backend/internal/model"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const historyCacheTTL = 5 * time.Minute

// QueryRepository persists QueryRecords. Reads of a user's history go through
// a short-lived Redis cache; writes and bulk deletes invalidate it. The
// repository works DB-only when no Redis client is configured.
type QueryRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewQueryRepository(db *gorm.DB, rdb *redis.Client) *QueryRepository {
	return &QueryRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *QueryRepository) historyKey(userID uint) string {
	return fmt.Sprintf("eduai:history:%d", userID)
}

// Create inserts one record. Records are immutable, there is no update path.
func (r *QueryRepository) Create(record *model.QueryRecord) error {
	if err := r.DB.Create(record).Error; err != nil {
		return err
	}
	r.invalidate(record.UserID)
	return nil
}

// FindByUser returns the user's records newest first. A read racing a
// concurrent DeleteByUser can re-cache the pre-delete list; the TTL bounds
// how long that stale entry survives.
func (r *QueryRepository) FindByUser(userID uint) ([]model.QueryRecord, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(r.ctx, r.historyKey(userID)).Result(); err == nil {
			var records []model.QueryRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				return records, nil
			}
		}
	}

	records := []model.QueryRecord{}
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(records); err == nil {
			r.Redis.Set(r.ctx, r.historyKey(userID), data, historyCacheTTL)
		}
	}

	return records, nil
}

// DeleteByUser removes all of the user's records and reports how many.
func (r *QueryRepository) DeleteByUser(userID uint) (int64, error) {
	res := r.DB.Where("user_id = ?", userID).Delete(&model.QueryRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	r.invalidate(userID)
	return res.RowsAffected, nil
}

func (r *QueryRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QueryRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *QueryRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QueryRecord{}).Count(&count).Error
	return count, err
}

func (r *QueryRepository) invalidate(userID uint) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, r.historyKey(userID))
	}
}
