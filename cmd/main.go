package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/weiawesome/wes-io-live/snowflake/internal/cli"
	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRoot().ExecuteContext(ctx); err != nil {
		l := pkglog.L()
		l.Debug().Err(err).Msg("command failed")
		cancel()
		os.Exit(1)
	}
}
