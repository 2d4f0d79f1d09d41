package commands

import (
	"fmt"

	"github.com/davherrmann/davherrmann.github.io/internal/build"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	res, err := build.NewService().WithLogger(g.logger()).Run(g.ctx(), build.Request{
		Config:  cfg,
		Options: build.Options{DryRun: true, SkipVerify: true},
	})
	if err != nil {
		return err
	}
	for _, p := range res.Paths {
		_, _ = fmt.Fprintln(g.stdout(), p)
	}
	return nil
}
