// Copyright 2026 The mdtk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// mdserve is the Markdown playground server:
// it parses posted sources into positioned block elements,
// renders preview HTML,
// and serves the playground's static files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mdtk/markdown/internal/config"
	"github.com/mdtk/markdown/internal/logging"
	"github.com/mdtk/markdown/internal/server"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logging.New(os.Stderr, "error").Error("mdserve failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		publicDir  string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "mdserve",
		Short: "Serve the Markdown parsing playground",
		Long: `mdserve runs the playground HTTP server.

POST /parse accepts {"source": "..."} and responds with the parsed
document: a flat sequence of block elements annotated with byte,
codepoint, and line positions into the source.
POST /render responds with preview HTML for the same request body.
All other paths serve static files from the public directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("public") {
				cfg.PublicDir = publicDir
			}
			if debug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel)
			return server.Run(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&addr, "addr", config.Default().Addr, "address to listen on")
	cmd.Flags().StringVar(&publicDir, "public", "", "directory of static playground files")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdserve %s (%s)\n", version, commit)
		},
	}
}
