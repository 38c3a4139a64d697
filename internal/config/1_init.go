package config

import (
	"context"
	"runtime"

	"go.uber.org/zap"
)

func init() {
	debug := Load().Debug

	l, err := newLogger(debug)
	if err != nil {
		return // keep the no-op logger
	}
	SetLogger(l)

	if debug {
		LogDebug(context.Background(), "framemetrics config initialized",
			zap.String("arch", runtime.GOOS))
	}
}
