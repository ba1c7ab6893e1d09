package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/config"
	"github.com/pixura/pixura-contracts/src/service/svc"
)

// Platform is the application container: config, HTTP router and the wired
// service context.
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
}

func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
	}, nil
}

// Start runs the HTTP server. Blocking.
func (p *Platform) Start() error {
	xzap.WithContext(context.Background()).Info("settlement service run",
		zap.String("port", p.config.Api.Port))
	return p.router.Run(p.config.Api.Port)
}
