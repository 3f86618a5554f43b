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

package run

import (
	"fmt"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/spf13/cobra"

	"github.com/sdcheck/sdcheck/cmd/config"
	"github.com/sdcheck/sdcheck/cmd/sdcheck/shared"
	"github.com/sdcheck/sdcheck/internal/cgroups"
	"github.com/sdcheck/sdcheck/internal/errdefs"
	"github.com/sdcheck/sdcheck/internal/harness"
	"github.com/sdcheck/sdcheck/internal/readiness"
)

const (
	managerWaitTimeout  = 10 * time.Second
	managerWaitInterval = 500 * time.Millisecond
)

func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the systemd container boot and cgroup checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := shared.LoggerFrom(cmd)

			cfg := harness.DefaultConfig()
			if path := config.SDCHECK_ROOT_CONFIG_FILE.ValueOrDefault(); path != "" {
				var err error
				if cfg, err = harness.LoadConfig(path); err != nil {
					return err
				}
			}
			cfg.ContainerExe = config.SDCHECK_ROOT_CONTAINER_EXE.ValueOrDefault()
			cfg.ContainerHost = config.SDCHECK_ROOT_CONTAINER_HOST.ValueOrDefault()
			if mode, _ := cmd.Flags().GetString("setup-mode"); mode != "" && mode != "default" {
				cfg.SetupMode = mode
			}
			if ns, _ := cmd.Flags().GetString("cgroupns"); ns != "" {
				cfg.Cgroupns = ns
			}
			if mode, _ := cmd.Flags().GetString("cgroup-mode"); mode != "" {
				cfg.CgroupMode = mode
			}
			if keep, _ := cmd.Flags().GetBool("keep-containers"); keep {
				cfg.KeepContainers = true
			}

			client, err := shared.NewClient(logger)
			if err != nil {
				return err
			}

			// Check the manager daemon before anything else; its info output
			// is the first thing needed when diagnosing environment problems.
			// A remote daemon may still be coming up, so give it a moment.
			info, err := client.Info(cmd.Context())
			if err != nil && cerrdefs.IsUnavailable(err) {
				err = readiness.WaitFor(cmd.Context(), logger, "container manager reachable",
					func() (bool, error) {
						if info, err = client.Info(cmd.Context()); err != nil {
							return false, err
						}
						return true, nil
					}, managerWaitTimeout, managerWaitInterval)
			}
			if err != nil {
				return fmt.Errorf("container manager not reachable: %w", err)
			}
			logger.DebugContext(cmd.Context(), "container host info", "info", info)

			version, err := cgroups.Detect(cmd.Context(), client)
			if err != nil {
				return fmt.Errorf("failed to determine cgroup version: %w", err)
			}
			logger.InfoContext(cmd.Context(), "determined cgroup version", "version", version)

			if err := cfg.Validate(version); err != nil {
				return err
			}
			if cfg.ContainerHost == "" {
				mounts, err := cgroups.HostMounts()
				if err != nil {
					return err
				}
				if cfg.SetupMode == "" {
					if err := cgroups.CheckSystemdMount(version, mounts); err != nil {
						return err
					}
				}
			} else {
				logger.WarnContext(cmd.Context(), "unable to check mounts on remote host")
			}

			suite := &harness.Suite{
				Ctx: &harness.CtrCtx{
					Client: client,
					Logger: logger,
					Config: cfg,
				},
				Version: version,
			}
			results := suite.Run(cmd.Context())
			for _, r := range results {
				switch {
				case r.Skipped:
					fmt.Fprintf(cmd.OutOrStdout(), "SKIP %s (%s)\n", r.Name, r.Reason)
				case r.Err != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", r.Name, r.Err)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "PASS %s\n", r.Name)
				}
			}
			if harness.Failed(results) {
				return errdefs.ErrCheckFailed
			}
			return nil
		},
	}

	runCmd.Flags().String("setup-mode", "", "Setup mode to use, 'default' or one of: "+joinModes())
	runCmd.Flags().String("cgroupns", "", "Cgroup namespace mode to use (host or private)")
	runCmd.Flags().String("cgroup-mode", "", "Systemd cgroup mode, legacy/hybrid on v1, unified on v2")
	runCmd.Flags().Bool("keep-containers", false, "Keep containers after checks, for debugging")
	return runCmd
}

func joinModes() string {
	out := ""
	for i, m := range harness.SetupModes() {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}
