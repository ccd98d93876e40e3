package main

import (
	"context"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/repos"
)

func main() {
	logger := core.NewStdLogger("ADMIN : ")

	conf := core.NewConfig()
	cli := &commandLine{
		conf: conf,
		out:  os.Stdout,
		open: func(ctx context.Context, migrate bool) (*repos.Repos, error) {
			return repos.Open(ctx, conf, migrate)
		},
	}
	if err := cli.rootCmd().Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
