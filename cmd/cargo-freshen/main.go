package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(newApp())
	cmd.SetArgs(stripSubcommand(args))
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg(consts.AppName + " failed")
		return 1
	}
	return 0
}

// stripSubcommand drops the "freshen" argument cargo passes when the tool is
// run as `cargo freshen`.
func stripSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == consts.SubcommandName {
		return args[1:]
	}
	return args
}
