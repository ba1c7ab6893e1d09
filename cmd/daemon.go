package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/api/router"
	"github.com/pixura/pixura-contracts/src/app"
	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/config"
	"github.com/pixura/pixura-contracts/src/service/svc"
)

var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "run the marketplace settlement service.",
	Long:  "run the marketplace settlement service.",
	Run: func(cmd *cobra.Command, args []string) {
		wg := &sync.WaitGroup{}
		wg.Add(1)

		ctx, cancel := context.WithCancel(context.Background())

		onExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			cfg, err := config.UnmarshalCmdConfig()
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onExit <- err
				return
			}

			_, err = xzap.SetUp(*cfg.Log)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to set up logger", zap.Error(err))
				onExit <- err
				return
			}

			xzap.WithContext(ctx).Info("settlement server start", zap.Any("config", cfg))

			serverCtx, err := svc.NewServiceContext(cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create service context", zap.Error(err))
				onExit <- err
				return
			}

			r := router.NewRouter(serverCtx)
			platform, err := app.NewPlatform(cfg, r, serverCtx)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create platform", zap.Error(err))
				onExit <- err
				return
			}

			if cfg.Monitor != nil && cfg.Monitor.PprofEnable {
				threading.GoSafe(func() {
					_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort), nil)
				})
			}

			if err := platform.Start(); err != nil {
				onExit <- err
			}
		}()

		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			cancel()
			xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
			os.Exit(0)
		case err := <-onExit:
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(DaemonCmd)
}
