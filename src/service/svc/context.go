package svc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"gorm.io/gorm"

	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/config"
	"github.com/pixura/pixura-contracts/src/dao"
	"github.com/pixura/pixura-contracts/src/market/payout"
	"github.com/pixura/pixura-contracts/src/market/registry"
	"github.com/pixura/pixura-contracts/src/market/settings"
	"github.com/pixura/pixura-contracts/src/market/settlement"
	"github.com/pixura/pixura-contracts/src/market/types"
)

type ServerCtx struct {
	C       *config.Config
	DB      *gorm.DB
	KvStore kv.Store
	Dao     *dao.Dao
	Engine  *settlement.Engine

	Registry   registry.AssetRegistry
	Settings   *settings.Static
	Dispatcher *payout.LedgerDispatcher
}

// NewServiceContext wires every component the daemon needs: logger, redis,
// mysql, the asset registry selected by config, and the settlement engine.
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	if _, err := xzap.SetUp(*c.Log); err != nil {
		return nil, err
	}

	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	store := kv.NewStore(kvConf)

	db, err := dao.NewDB(c.DB)
	if err != nil {
		return nil, err
	}
	d := dao.New(context.Background(), db, store)

	var reg registry.AssetRegistry
	switch c.ChainCfg.Mode {
	case "evm":
		reg, err = registry.NewEVM(c.ChainCfg.Endpoint, c.ChainCfg.OperatorKey, c.ChainCfg.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed on create evm registry")
		}
	default:
		reg = registry.NewMemory()
	}

	st := settings.NewStatic(settings.Rates{
		MarketplaceFeePct:     c.MarketCfg.MarketplaceFeePct,
		PrimarySaleFeePct:     c.MarketCfg.PrimarySaleFeePct,
		RoyaltyPct:            c.MarketCfg.RoyaltyPct,
		MinimumBidIncreasePct: c.MarketCfg.MinimumBidIncreasePct,
	})
	dispatcher := payout.NewLedgerDispatcher()
	splitter := payout.NewSplitter(dispatcher)

	engine := settlement.New(settlement.Config{
		Operator: common.HexToAddress(c.MarketCfg.OperatorAddress),
		Admin:    common.HexToAddress(c.MarketCfg.AdminAddress),
		Platform: common.HexToAddress(c.MarketCfg.PlatformAddress),
	}, reg, st, st, splitter, types.MultiSink{dao.NewFactSink(d), settlement.LogSink{}})

	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithEngine(engine),
	)
	serverCtx.C = c
	serverCtx.Registry = reg
	serverCtx.Settings = st
	serverCtx.Dispatcher = dispatcher

	return serverCtx, nil
}
