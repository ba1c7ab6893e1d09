package svc

import (
	"github.com/zeromicro/go-zero/core/stores/kv"
	"gorm.io/gorm"

	"github.com/pixura/pixura-contracts/src/dao"
	"github.com/pixura/pixura-contracts/src/market/settlement"
)

// CtxConfig collects the pieces NewServerCtx assembles, option style.
type CtxConfig struct {
	db      *gorm.DB
	kvStore kv.Store
	dao     *dao.Dao
	engine  *settlement.Engine
}

type CtxOption func(conf *CtxConfig)

func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:      c.db,
		KvStore: c.kvStore,
		Dao:     c.dao,
		Engine:  c.engine,
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithKv(kvStore kv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.kvStore = kvStore
	}
}

func WithDao(d *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = d
	}
}

func WithEngine(e *settlement.Engine) CtxOption {
	return func(conf *CtxConfig) {
		conf.engine = e
	}
}
