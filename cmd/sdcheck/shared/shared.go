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

package shared

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sdcheck/sdcheck/cmd/config"
	"github.com/sdcheck/sdcheck/cmd/types"
	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/logging"
)

// LoggerFrom returns the logger stashed in the command context, or a no-op
// logger when verbose mode never installed one.
func LoggerFrom(cmd *cobra.Command) *slog.Logger {
	if logger, ok := cmd.Context().Value(types.CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return logging.NewNoopLogger()
}

// NewClient builds the container manager client from the bound configuration.
func NewClient(logger *slog.Logger) (*ctr.Client, error) {
	return ctr.NewClient(
		logger,
		config.SDCHECK_ROOT_CONTAINER_EXE.ValueOrDefault(),
		config.SDCHECK_ROOT_CONTAINER_HOST.ValueOrDefault(),
	)
}
