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

package detect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcheck/sdcheck/cmd/sdcheck/shared"
	"github.com/sdcheck/sdcheck/internal/cgroups"
)

func NewDetectCmd() *cobra.Command {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the container host's cgroup version and manager capabilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := shared.LoggerFrom(cmd)
			client, err := shared.NewClient(logger)
			if err != nil {
				return err
			}

			version, err := cgroups.Detect(cmd.Context(), client)
			if err != nil {
				return fmt.Errorf("failed to determine cgroup version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cgroup version: %s\n", version)

			if hostVersion, ok := cgroups.HostMode(); ok && hostVersion != version {
				// A mismatch is normal when driving a remote host.
				logger.WarnContext(cmd.Context(), "local cgroup mode differs from container host",
					"local", hostVersion, "host", version)
			}

			mounts, err := cgroups.HostMounts()
			if err == nil {
				if err := cgroups.CheckSystemdMount(version, mounts); err != nil {
					logger.WarnContext(cmd.Context(), "host check failed", "error", err)
				}
			}

			caps := client.Manager().Capabilities()
			fmt.Fprintf(cmd.OutOrStdout(), "manager: %s\n", client.Manager())
			fmt.Fprintf(cmd.OutOrStdout(), "systemd mode support: %t\n", caps.SystemdSupport)
			fmt.Fprintf(cmd.OutOrStdout(), "needs 'container' env: %t\n", caps.NeedsContainerEnv)
			fmt.Fprintf(cmd.OutOrStdout(), "needs /run tmpfs: %t\n", caps.NeedsRunTmpfs)
			fmt.Fprintf(cmd.OutOrStdout(), "privileged by default: %t\n", caps.DefaultPrivileged)
			return nil
		},
	}
	return detectCmd
}
