package settlement

import (
	"context"

	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/market/types"
)

// LogSink writes every committed fact to the structured log. It is the
// fallback sink when no persistence is configured.
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, fact types.Fact) {
	xzap.WithContext(ctx).Info("settlement fact",
		zap.String("type", fact.FactType()),
		zap.Any("fact", fact))
}
