// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command mandel renders the Mandelbrot set with the lane-parallel
// escape-time evaluator.
//
// Usage:
//
//	mandel render -o frame.png --zoom 50 --x -0.7436 --y 0.1318
//	mandel serve --addr :8080
//	mandel info
//
// Every command reads MANDEL_WIDTH, MANDEL_HEIGHT, MANDEL_MAX_ITER,
// MANDEL_LANES and MANDEL_WORKERS before parsing flags. HWY_NO_SIMD=1 forces
// the scalar lane width.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajroetker/hwy-mandel/internal/config"
	"github.com/ajroetker/hwy-mandel/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "mandel",
		Short:        "Render the Mandelbrot set",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			render.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(newRenderCmd(), newServeCmd(), newInfoCmd())
	return root
}

// envConfig returns the default configuration with the MANDEL_* environment
// applied. Commands bind flags to it afterwards, so flags win. An environment
// error is reported when the command runs, not while the command tree is
// built.
func envConfig() (*config.Config, error) {
	cfg := config.Default()
	err := cfg.FromEnv(os.LookupEnv)
	return &cfg, err
}
