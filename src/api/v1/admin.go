package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/pixura/pixura-contracts/src/common/errcode"
	"github.com/pixura/pixura-contracts/src/common/xhttp"
	"github.com/pixura/pixura-contracts/src/service/svc"
	service "github.com/pixura/pixura-contracts/src/service/v1"
	types "github.com/pixura/pixura-contracts/src/types/v1"
)

// UpdateSettingsHandler swaps the engine's fee provider. Admin only.
func UpdateSettingsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ProviderUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.UpdateSettingsProvider(svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// UpdateRoyaltyHandler swaps the engine's royalty provider. Admin only.
func UpdateRoyaltyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ProviderUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := service.UpdateRoyaltyProvider(svcCtx, req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}
		xhttp.OkJson(c, nil)
	}
}
