// Package dao is the data access layer: gorm for durable settlement facts,
// go-zero kv (redis) as a read cache in front of them.
package dao

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/pixura/pixura-contracts/src/config"
)

type Dao struct {
	ctx context.Context

	DB      *gorm.DB
	KvStore kv.Store
}

func New(ctx context.Context, db *gorm.DB, kvStore kv.Store) *Dao {
	return &Dao{
		ctx:     ctx,
		DB:      db,
		KvStore: kvStore,
	}
}

// NewDB opens the MySQL connection and migrates the activity table.
func NewDB(c *config.DB) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(c.DSN), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed on open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed on get sql db")
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Activity{}); err != nil {
		return nil, errors.Wrap(err, "failed on migrate activity table")
	}
	return db, nil
}
