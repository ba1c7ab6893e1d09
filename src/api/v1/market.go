package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pixura/pixura-contracts/src/common/errcode"
	"github.com/pixura/pixura-contracts/src/common/xhttp"
	"github.com/pixura/pixura-contracts/src/service/svc"
	service "github.com/pixura/pixura-contracts/src/service/v1"
	types "github.com/pixura/pixura-contracts/src/types/v1"
)

// SetSalePriceHandler records or clears a token's ask price.
func SetSalePriceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SetSalePriceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.SetSalePrice(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// TokenPriceHandler returns the effective ask with and without fee. It fails
// when marketplace approval is missing rather than answering zero.
func TokenPriceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection_address")
		tokenID := c.Query("token_id")
		if collection == "" || tokenID == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		res, err := service.TokenPrice(c.Request.Context(), svcCtx, collection, tokenID)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// BuyHandler settles a fixed-price purchase; expected_amount arms SafeBuy.
func BuyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.BuyReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.Buy(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// OfferHandler places or replaces a bid.
func OfferHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.OfferReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.Offer(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// AcceptOfferHandler settles a named bid; expected_amount arms SafeAcceptOffer.
func AcceptOfferHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AcceptOfferReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.AcceptOffer(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// CancelOfferHandler refunds and removes the caller's bid.
func CancelOfferHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CancelOfferReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.CancelOffer(c.Request.Context(), svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// TokenBidsHandler lists the token's active bids plus the highest one.
func TokenBidsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection_address")
		tokenID := c.Query("token_id")
		if collection == "" || tokenID == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		res, err := service.TokenBids(c.Request.Context(), svcCtx, collection, tokenID)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// ActivitiesHandler lists persisted settlement facts for a collection.
func ActivitiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection_address")
		if collection == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		activities, err := svcCtx.Dao.QueryActivities(c.Request.Context(), collection, limit)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, struct {
			Result interface{} `json:"result"`
		}{Result: activities})
	}
}

// PendingWithdrawalHandler reports the escrowed balance owed to an address.
func PendingWithdrawalHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipient := c.Query("recipient")
		if recipient == "" {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		xhttp.OkJson(c, service.PendingWithdrawal(svcCtx, recipient))
	}
}

// WithdrawHandler pays out a pending escrow balance.
func WithdrawHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.WithdrawReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		res, err := service.Withdraw(svcCtx, req)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}
