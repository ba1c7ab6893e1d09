package dao

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/market/types"
)

// FactSink persists every committed settlement fact as an activity row.
// Persistence failures are logged, never surfaced: the settlement has already
// committed and must not be un-done by a cache or DB hiccup.
type FactSink struct {
	dao *Dao
}

func NewFactSink(dao *Dao) *FactSink {
	return &FactSink{dao: dao}
}

func (s *FactSink) Publish(ctx context.Context, fact types.Fact) {
	var a Activity
	switch f := fact.(type) {
	case types.Sold:
		a = Activity{
			ActivityType:      f.FactType(),
			CollectionAddress: f.Collection.Hex(),
			TokenID:           f.TokenID,
			Maker:             f.Seller.Hex(),
			Taker:             f.Buyer.Hex(),
			Price:             toDecimal(f.Amount),
		}
	case types.SetSalePrice:
		a = Activity{
			ActivityType:      f.FactType(),
			CollectionAddress: f.Collection.Hex(),
			TokenID:           f.TokenID,
			Maker:             f.Seller.Hex(),
			Price:             toDecimal(f.Amount),
		}
	case types.Offer:
		a = Activity{
			ActivityType:      f.FactType(),
			CollectionAddress: f.Collection.Hex(),
			TokenID:           f.TokenID,
			Maker:             f.Bidder.Hex(),
			Price:             toDecimal(f.Amount),
		}
	case types.AcceptOffer:
		a = Activity{
			ActivityType:      f.FactType(),
			CollectionAddress: f.Collection.Hex(),
			TokenID:           f.TokenID,
			Maker:             f.Seller.Hex(),
			Taker:             f.Bidder.Hex(),
			Price:             toDecimal(f.Amount),
		}
	case types.CancelOffer:
		a = Activity{
			ActivityType:      f.FactType(),
			CollectionAddress: f.Collection.Hex(),
			TokenID:           f.TokenID,
			Maker:             f.Bidder.Hex(),
			Price:             toDecimal(f.Amount),
		}
	default:
		return
	}

	if err := s.dao.AddActivity(ctx, &a); err != nil {
		xzap.WithContext(ctx).Error("failed on persist settlement fact",
			zap.String("type", fact.FactType()),
			zap.Error(err))
	}
}

func toDecimal(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}
