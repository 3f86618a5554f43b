// Copyright 2026 The sdcheck Authors
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
//
// SPDX-License-Identifier: Apache-2.0

package sdcheck

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sdcheck/sdcheck/cmd/config"
	detectcmd "github.com/sdcheck/sdcheck/cmd/sdcheck/detect"
	runcmd "github.com/sdcheck/sdcheck/cmd/sdcheck/run"
	"github.com/sdcheck/sdcheck/cmd/sdcheck/version"
	"github.com/sdcheck/sdcheck/cmd/types"
	"github.com/sdcheck/sdcheck/internal/logging"
)

func NewSdcheckCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "sdcheck",
		Short: "sdcheck verifies systemd containers boot correctly under docker and podman",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !viper.GetBool(config.SDCHECK_ROOT_VERBOSE.ViperKey) {
				return
			}
			logLevel := viper.GetString(config.SDCHECK_ROOT_LOG_LEVEL.ViperKey)
			if logLevel == "" {
				logLevel = "info"
			}

			levelVar := new(slog.LevelVar)
			levelVar.Set(logging.ParseLevel(logLevel))

			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar})
			handler := &logging.ReformatHandler{Inner: textHandler, Writer: os.Stdout}
			logger := slog.New(handler)

			ctx := cmd.Context()
			ctx = context.WithValue(ctx, types.CtxLogger, logger)
			ctx = context.WithValue(ctx, types.CtxLevelVar, levelVar)
			ctx = context.WithValue(ctx, types.CtxHandler, handler)
			cmd.SetContext(ctx)
			logger.DebugContext(cmd.Context(), "enabling verbose", "log-level", logLevel)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	if err := SetupSdcheckCmd(cmd); err != nil {
		return nil, err
	}

	return cmd, nil
}

func SetupSdcheckCmd(rootCmd *cobra.Command) error {
	rootCmd.AddCommand(runcmd.NewRunCmd())
	rootCmd.AddCommand(detectcmd.NewDetectCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return SetPersistentFlags(rootCmd)
}

func SetPersistentFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().String("container-exe", "docker", "The executable used to manage containers")
	if err := viper.BindPFlag(config.SDCHECK_ROOT_CONTAINER_EXE.ViperKey, rootCmd.PersistentFlags().Lookup("container-exe")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("container-host", "", "Remote host to connect to for running containers")
	if err := viper.BindPFlag(config.SDCHECK_ROOT_CONTAINER_HOST.ViperKey, rootCmd.PersistentFlags().Lookup("container-host")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("config", "", "Harness config file (YAML)")
	if err := viper.BindPFlag(config.SDCHECK_ROOT_CONFIG_FILE.ViperKey, rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	if err := viper.BindPFlag(config.SDCHECK_ROOT_VERBOSE.ViperKey, rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		return err
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	if err := viper.BindPFlag(config.SDCHECK_ROOT_LOG_LEVEL.ViperKey, rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}

	return nil
}
