package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/pixura/pixura-contracts/src/market/settings"
	"github.com/pixura/pixura-contracts/src/service/svc"
	"github.com/pixura/pixura-contracts/src/types/v1"
)

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("malformed amount %q", s)
	}
	return v, nil
}

func parseTokenID(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("malformed token id %q", s)
	}
	return v, nil
}

// SetSalePrice records the caller's ask; amount 0 clears the listing.
func SetSalePrice(ctx context.Context, svcCtx *svc.ServerCtx, req types.SetSalePriceReq) error {
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	return svcCtx.Engine.SetSalePrice(ctx,
		common.HexToAddress(req.CollectionAddress), tokenID,
		common.HexToAddress(req.Caller), amount)
}

// TokenPrice returns the effective ask with and without the marketplace fee.
func TokenPrice(ctx context.Context, svcCtx *svc.ServerCtx, collectionAddress, tokenIDStr string) (*types.PriceResp, error) {
	tokenID, err := parseTokenID(tokenIDStr)
	if err != nil {
		return nil, err
	}
	collection := common.HexToAddress(collectionAddress)

	price, err := svcCtx.Engine.TokenPrice(ctx, collection, tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read token price")
	}
	withFee, err := svcCtx.Engine.TokenPriceFeeIncluded(ctx, collection, tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read token price with fee")
	}
	return &types.PriceResp{
		Price:            price.String(),
		PriceFeeIncluded: withFee.String(),
	}, nil
}

// Buy settles a purchase; a non-empty expected amount upgrades it to SafeBuy.
func Buy(ctx context.Context, svcCtx *svc.ServerCtx, req types.BuyReq) error {
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	sentValue, err := parseAmount(req.SentValue)
	if err != nil {
		return err
	}
	collection := common.HexToAddress(req.CollectionAddress)
	buyer := common.HexToAddress(req.Buyer)

	if req.ExpectedAmount != "" {
		expected, err := parseAmount(req.ExpectedAmount)
		if err != nil {
			return err
		}
		return svcCtx.Engine.SafeBuy(ctx, collection, tokenID, buyer, sentValue, expected)
	}
	return svcCtx.Engine.Buy(ctx, collection, tokenID, buyer, sentValue)
}

// Offer places or replaces the bidder's escrowed bid.
func Offer(ctx context.Context, svcCtx *svc.ServerCtx, req types.OfferReq) error {
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	sentValue, err := parseAmount(req.SentValue)
	if err != nil {
		return err
	}
	return svcCtx.Engine.Offer(ctx,
		common.HexToAddress(req.CollectionAddress), tokenID,
		common.HexToAddress(req.Bidder), amount, sentValue)
}

// AcceptOffer settles the named bid; a non-empty expected amount upgrades it
// to SafeAcceptOffer.
func AcceptOffer(ctx context.Context, svcCtx *svc.ServerCtx, req types.AcceptOfferReq) error {
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	collection := common.HexToAddress(req.CollectionAddress)
	caller := common.HexToAddress(req.Caller)
	bidder := common.HexToAddress(req.Bidder)

	if req.ExpectedAmount != "" {
		expected, err := parseAmount(req.ExpectedAmount)
		if err != nil {
			return err
		}
		return svcCtx.Engine.SafeAcceptOffer(ctx, collection, tokenID, caller, bidder, expected)
	}
	return svcCtx.Engine.AcceptOffer(ctx, collection, tokenID, caller, bidder)
}

// CancelOffer refunds and removes the caller's active bid.
func CancelOffer(ctx context.Context, svcCtx *svc.ServerCtx, req types.CancelOfferReq) error {
	tokenID, err := parseTokenID(req.TokenID)
	if err != nil {
		return err
	}
	return svcCtx.Engine.CancelOffer(ctx,
		common.HexToAddress(req.CollectionAddress), tokenID,
		common.HexToAddress(req.Caller))
}

// TokenBids lists active bids plus the current highest one.
func TokenBids(_ context.Context, svcCtx *svc.ServerCtx, collectionAddress, tokenIDStr string) (*types.BidsResp, error) {
	tokenID, err := parseTokenID(tokenIDStr)
	if err != nil {
		return nil, err
	}
	collection := common.HexToAddress(collectionAddress)

	resp := &types.BidsResp{}
	for _, bid := range svcCtx.Engine.Bids(collection, tokenID) {
		resp.Bids = append(resp.Bids, types.BidInfo{
			Bidder:       bid.Bidder.Hex(),
			Amount:       bid.Amount.String(),
			FeeAtBidTime: bid.MarketplaceFee,
		})
	}
	if highest := svcCtx.Engine.HighestBid(collection, tokenID); highest.Active() {
		resp.Highest = &types.BidInfo{
			Bidder:       highest.Bidder.Hex(),
			Amount:       highest.Amount.String(),
			FeeAtBidTime: highest.MarketplaceFee,
		}
	}
	return resp, nil
}

// PendingWithdrawal reports the escrowed balance owed to the recipient.
func PendingWithdrawal(svcCtx *svc.ServerCtx, recipient string) *types.PendingResp {
	addr := common.HexToAddress(recipient)
	return &types.PendingResp{
		Recipient: addr.Hex(),
		Amount:    svcCtx.Engine.Splitter().PendingWithdrawal(addr).String(),
	}
}

// Withdraw pays out the recipient's escrowed balance.
func Withdraw(svcCtx *svc.ServerCtx, req types.WithdrawReq) (*types.PendingResp, error) {
	addr := common.HexToAddress(req.Recipient)
	paid, err := svcCtx.Engine.Splitter().Withdraw(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed on withdraw pending balance")
	}
	return &types.PendingResp{Recipient: addr.Hex(), Amount: paid.String()}, nil
}

// UpdateSettingsProvider swaps the engine's fee provider for one carrying the
// new rates. Sold-flag state is shared with the outgoing provider so primary
// sale detection survives the swap.
func UpdateSettingsProvider(svcCtx *svc.ServerCtx, req types.ProviderUpdateReq) error {
	provider := svcCtx.Settings.WithRates(settings.Rates{
		MarketplaceFeePct:     req.MarketplaceFeePct,
		PrimarySaleFeePct:     req.PrimarySaleFeePct,
		RoyaltyPct:            req.RoyaltyPct,
		MinimumBidIncreasePct: req.MinimumBidIncreasePct,
	})
	if err := svcCtx.Engine.SetSettingsProvider(common.HexToAddress(req.Caller), provider); err != nil {
		return err
	}
	svcCtx.Settings = provider
	return nil
}

// UpdateRoyaltyProvider swaps the engine's royalty provider the same way.
func UpdateRoyaltyProvider(svcCtx *svc.ServerCtx, req types.ProviderUpdateReq) error {
	provider := svcCtx.Settings.WithRates(settings.Rates{
		MarketplaceFeePct:     req.MarketplaceFeePct,
		PrimarySaleFeePct:     req.PrimarySaleFeePct,
		RoyaltyPct:            req.RoyaltyPct,
		MinimumBidIncreasePct: req.MinimumBidIncreasePct,
	})
	if err := svcCtx.Engine.SetRoyaltyProvider(common.HexToAddress(req.Caller), provider); err != nil {
		return err
	}
	svcCtx.Settings = provider
	return nil
}
