// Package main provides the wbot command: the chat automation server and its flow tools.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "wbot",
		Usage:                 "WhatsApp automation bot: flows, AI replies and scheduled messages",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewServeCommand(),
			NewFlowsCommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   "text",
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
	}
}

func databaseURLFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "database-url",
		Usage:    "Persistence URL (file://dir, sqlite://path, postgres://...)",
		Value:    "file://./data",
		Required: required,
		Sources:  cli.EnvVars("DATABASE_URL"),
	}
}

func pluginsPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "plugins-path",
		Usage:   "Directory containing node plugins (<path>/nodes/*.so)",
		Sources: cli.EnvVars("PLUGINS_PATH"),
	}
}
