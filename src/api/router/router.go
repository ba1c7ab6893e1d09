package router

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pixura/pixura-contracts/src/api/middleware"
	v1 "github.com/pixura/pixura-contracts/src/api/v1"
	"github.com/pixura/pixura-contracts/src/service/svc"
)

func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	gin.ForceConsoleColor()
	gin.SetMode(gin.ReleaseMode)
	registerValidators()

	r := gin.New()
	r.Use(middleware.RecoverMiddleware())
	r.Use(middleware.RLog())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           1 * time.Hour,
	}))

	loadV1(r, svcCtx)
	return r
}

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	api := r.Group("/api/v1")

	tokens := api.Group("/tokens")
	tokens.POST("/price", v1.SetSalePriceHandler(svcCtx))
	tokens.GET("/price", v1.TokenPriceHandler(svcCtx))
	tokens.POST("/buy", v1.BuyHandler(svcCtx))

	offers := api.Group("/offers")
	offers.POST("", v1.OfferHandler(svcCtx))
	offers.GET("", v1.TokenBidsHandler(svcCtx))
	offers.POST("/accept", v1.AcceptOfferHandler(svcCtx))
	offers.POST("/cancel", v1.CancelOfferHandler(svcCtx))

	payouts := api.Group("/payouts")
	payouts.GET("/pending", v1.PendingWithdrawalHandler(svcCtx))
	payouts.POST("/withdraw", v1.WithdrawHandler(svcCtx))

	api.GET("/activities", v1.ActivitiesHandler(svcCtx))

	admin := api.Group("/admin")
	admin.POST("/settings", v1.UpdateSettingsHandler(svcCtx))
	admin.POST("/royalty", v1.UpdateRoyaltyHandler(svcCtx))
}

// registerValidators adds the ethaddr rule the request structs bind with.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ethaddr", func(fl validator.FieldLevel) bool {
			return common.IsHexAddress(fl.Field().String())
		})
	}
}
