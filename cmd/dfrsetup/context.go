package main

import (
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"dfrsetup/internal/logging"
	"dfrsetup/internal/plan"
)

type commandContext struct {
	sourceFlag    *string
	logFormatFlag *string
	verboseFlag   *bool

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(sourceFlag, logFormatFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		sourceFlag:    sourceFlag,
		logFormatFlag: logFormatFlag,
		verboseFlag:   verboseFlag,
	}
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		level := "info"
		if c.verboseFlag != nil && *c.verboseFlag {
			level = "debug"
		}
		format := "console"
		if c.logFormatFlag != nil && *c.logFormatFlag != "" {
			format = *c.logFormatFlag
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  level,
			Format: format,
			Output: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) plan() plan.Plan {
	p := plan.Default()
	if c.sourceFlag != nil && *c.sourceFlag != "" {
		p.SourceDir = *c.sourceFlag
	}
	return p
}

func (c *commandContext) stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return c.plan().StateDir(home), nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
