package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	activityCacheKeyFmt = "cache:px:activity:%s"
	activityCacheTTL    = 60 // seconds
	activityQueryLimit  = 100
)

// Activity is one persisted settlement fact.
type Activity struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ActivityType      string          `gorm:"column:activity_type;type:varchar(32);index:idx_collection_type" json:"activity_type"`
	CollectionAddress string          `gorm:"column:collection_address;type:varchar(42);index:idx_collection_type" json:"collection_address"`
	TokenID           string          `gorm:"column:token_id;type:varchar(128)" json:"token_id"`
	Maker             string          `gorm:"column:maker;type:varchar(42)" json:"maker"`
	Taker             string          `gorm:"column:taker;type:varchar(42)" json:"taker"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(65,0)" json:"price"`
	EventTime         int64           `gorm:"column:event_time" json:"event_time"`
}

func (Activity) TableName() string {
	return "px_activity"
}

// AddActivity persists a fact and drops the collection's cache entry so the
// next read sees it.
func (d *Dao) AddActivity(ctx context.Context, a *Activity) error {
	if a.EventTime == 0 {
		a.EventTime = time.Now().Unix()
	}
	if err := d.DB.WithContext(ctx).Create(a).Error; err != nil {
		return errors.Wrap(err, "failed on insert activity")
	}
	if _, err := d.KvStore.Del(fmt.Sprintf(activityCacheKeyFmt, a.CollectionAddress)); err != nil {
		return errors.Wrap(err, "failed on invalidate activity cache")
	}
	return nil
}

// QueryActivities returns the most recent facts for a collection, serving
// from the kv cache when it is warm.
func (d *Dao) QueryActivities(ctx context.Context, collectionAddress string, limit int) ([]Activity, error) {
	if limit <= 0 || limit > activityQueryLimit {
		limit = activityQueryLimit
	}

	cacheKey := fmt.Sprintf(activityCacheKeyFmt, collectionAddress)
	if cached, err := d.KvStore.Get(cacheKey); err == nil && cached != "" {
		var activities []Activity
		if err := json.Unmarshal([]byte(cached), &activities); err == nil {
			if len(activities) > limit {
				activities = activities[:limit]
			}
			return activities, nil
		}
	}

	var activities []Activity
	if err := d.DB.WithContext(ctx).
		Where("collection_address = ?", collectionAddress).
		Order("event_time desc, id desc").
		Limit(activityQueryLimit).
		Find(&activities).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query activities")
	}

	if raw, err := json.Marshal(activities); err == nil {
		// Best effort; a cold cache only costs the next read a DB hit.
		_ = d.KvStore.Setex(cacheKey, string(raw), activityCacheTTL)
	}
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
