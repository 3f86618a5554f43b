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

package harness

import (
	"context"
	"log/slog"

	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/errdefs"
	"github.com/sdcheck/sdcheck/internal/readiness"
	"github.com/sdcheck/sdcheck/internal/util/naming"
)

// CtrCtx runs systemd containers with the configured defaults, guaranteeing
// removal on every exit path.
type CtrCtx struct {
	Client *ctr.Client
	Logger *slog.Logger
	Config Config
}

// RunSpec parameterises a single container run within the context.
type RunSpec struct {
	// Image overrides the context's default image.
	Image string
	// Opts are merged over the defaults; see WithContainer for the rules.
	Opts ctr.RunOptions
	// SkipWait starts the container without waiting for boot readiness.
	SkipWait bool
	// LogBootOutput logs boot (and init script) output even on success.
	LogBootOutput bool
}

// DefaultRunOptions returns the minimal arguments a systemd container needs
// for the given manager and setup mode, driven by the capability table.
func DefaultRunOptions(mgr ctr.Manager, setupMode string) ctr.RunOptions {
	caps := mgr.Capabilities()
	opts := ctr.RunOptions{}
	if caps.SystemdSupport {
		// "always" rather than "true" because custom init-script
		// entrypoints are not recognised as systemd entrypoints.
		opts.Systemd = "always"
	}
	if caps.NeedsRunTmpfs {
		opts.Tmpfs = []string{"/run"}
	}
	if caps.NeedsContainerEnv {
		// systemd only enters container mode when this is set.
		opts.Envs = map[string]string{"container": string(mgr)}
	}
	if caps.DefaultPrivileged && (setupMode == "" || setupMode == "inner_cgroup") {
		opts.Privileged = true
	} else {
		opts.CapAdd = []string{"sys_admin"}
	}
	return opts
}

// WithContainer runs a container, waits for systemd readiness (unless
// disabled), invokes fn, and always force-removes the container afterwards.
// Detached mode and keeping the container until removal are enforced, since
// attached runs cannot be polled and removal-on-exit loses the boot logs.
func (cc *CtrCtx) WithContainer(ctx context.Context, spec RunSpec, fn func(*ctr.Container) error) error {
	opts := spec.Opts
	if err := cc.applyDefaults(&opts); err != nil {
		return err
	}
	image := spec.Image
	if image == "" {
		var err error
		if image, err = cc.Image(ctx); err != nil {
			return err
		}
	}

	c, err := cc.Client.Run(ctx, image, opts)
	if err != nil {
		return err
	}
	defer cc.release(ctx, c)

	if !spec.SkipWait {
		if err := readiness.WaitUntilReady(ctx, cc.Logger, c, cc.Config.BootTimeout, cc.Config.PollInterval); err != nil {
			return err
		}
		if spec.LogBootOutput {
			cc.logBootOutput(ctx, c)
		}
	}
	return fn(c)
}

func (cc *CtrCtx) applyDefaults(opts *ctr.RunOptions) error {
	if opts.Systemd == "" && cc.Client.Manager() == ctr.ManagerPodman {
		// Disable podman's systemd mode unless asked for, for parity
		// with docker.
		opts.Systemd = "false"
	}
	if opts.Systemd == "false" && cc.Client.Manager() == ctr.ManagerDocker {
		// Docker has no systemd mode; nothing to disable.
		opts.Systemd = ""
	}
	if cc.Config.CgroupMode == CgroupModeLegacy {
		if opts.Envs == nil {
			opts.Envs = map[string]string{}
		}
		opts.Envs["SYSTEMD_PROC_CMDLINE"] = "systemd.legacy_systemd_cgroup_controller=1"
	}
	opts.TTY = true
	// Not needed, helps debugging.
	opts.Interactive = true
	if opts.Remove {
		return errdefs.ErrRemoveOnExit
	}
	opts.Detach = true
	if opts.Cgroupns == "" {
		opts.Cgroupns = cc.Config.Cgroupns
	} else if opts.Cgroupns != cc.Config.Cgroupns {
		return errdefs.ErrInvalidCgroupns
	}
	if opts.Name == "" {
		opts.Name = naming.ContainerName()
	}
	return nil
}

// release reports an unexpected exit with its console output, then removes
// the container unless configured to keep it.
func (cc *CtrCtx) release(ctx context.Context, c *ctr.Container) {
	if st, err := c.State(ctx); err == nil && !st.Running {
		logs, _ := c.Logs(ctx)
		cc.Logger.ErrorContext(ctx, "container exited unexpectedly",
			"name", c.Name,
			"exit_code", st.ExitCode,
			"console", logs,
		)
	}
	if cc.Config.KeepContainers {
		cc.Logger.InfoContext(ctx, "keeping container", "name", c.Name)
		return
	}
	if err := c.Remove(ctx, true); err != nil {
		cc.Logger.WarnContext(ctx, "failed to remove container", "name", c.Name, "error", err)
	}
}

func (cc *CtrCtx) logBootOutput(ctx context.Context, c *ctr.Container) {
	if cc.Config.SetupMode != "" {
		if out, err := c.Execute(ctx, "cat", "/var/log/init_script.log"); err == nil {
			cc.Logger.DebugContext(ctx, "init script logs", "logs", out)
		}
	}
	if logs, err := c.Logs(ctx); err == nil {
		cc.Logger.DebugContext(ctx, "container boot logs", "logs", logs)
	}
}
