package types

// Request and response shapes for the v1 market API. Addresses travel as
// 0x-hex strings, amounts as decimal strings in the payment token's base
// unit.

type SetSalePriceReq struct {
	CollectionAddress string `json:"collection_address" binding:"required,ethaddr"`
	TokenID           string `json:"token_id" binding:"required,number"`
	Caller            string `json:"caller" binding:"required,ethaddr"`
	Amount            string `json:"amount" binding:"required,number"`
}

type BuyReq struct {
	CollectionAddress string `json:"collection_address" binding:"required,ethaddr"`
	TokenID           string `json:"token_id" binding:"required,number"`
	Buyer             string `json:"buyer" binding:"required,ethaddr"`
	SentValue         string `json:"sent_value" binding:"required,number"`
	// ExpectedAmount arms the optimistic-concurrency guard (safe buy).
	ExpectedAmount string `json:"expected_amount" binding:"omitempty,number"`
}

type OfferReq struct {
	CollectionAddress string `json:"collection_address" binding:"required,ethaddr"`
	TokenID           string `json:"token_id" binding:"required,number"`
	Bidder            string `json:"bidder" binding:"required,ethaddr"`
	Amount            string `json:"amount" binding:"required,number"`
	SentValue         string `json:"sent_value" binding:"required,number"`
}

type AcceptOfferReq struct {
	CollectionAddress string `json:"collection_address" binding:"required,ethaddr"`
	TokenID           string `json:"token_id" binding:"required,number"`
	Caller            string `json:"caller" binding:"required,ethaddr"`
	Bidder            string `json:"bidder" binding:"required,ethaddr"`
	// ExpectedAmount arms the optimistic-concurrency guard (safe accept).
	ExpectedAmount string `json:"expected_amount" binding:"omitempty,number"`
}

type CancelOfferReq struct {
	CollectionAddress string `json:"collection_address" binding:"required,ethaddr"`
	TokenID           string `json:"token_id" binding:"required,number"`
	Caller            string `json:"caller" binding:"required,ethaddr"`
}

type WithdrawReq struct {
	Recipient string `json:"recipient" binding:"required,ethaddr"`
}

type ProviderUpdateReq struct {
	Caller                string `json:"caller" binding:"required,ethaddr"`
	MarketplaceFeePct     uint8  `json:"marketplace_fee_pct"`
	PrimarySaleFeePct     uint8  `json:"primary_sale_fee_pct"`
	RoyaltyPct            uint8  `json:"royalty_pct"`
	MinimumBidIncreasePct uint8  `json:"minimum_bid_increase_pct"`
}

type PriceResp struct {
	Price            string `json:"price"`
	PriceFeeIncluded string `json:"price_fee_included"`
}

type BidInfo struct {
	Bidder       string `json:"bidder"`
	Amount       string `json:"amount"`
	FeeAtBidTime uint8  `json:"fee_at_bid_time"`
}

type BidsResp struct {
	Bids    []BidInfo `json:"bids"`
	Highest *BidInfo  `json:"highest,omitempty"`
}

type PendingResp struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}
