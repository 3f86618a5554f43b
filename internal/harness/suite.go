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
	"fmt"
	"strconv"
	"strings"

	"github.com/sdcheck/sdcheck/internal/cgroups"
	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/errdefs"
	"github.com/sdcheck/sdcheck/internal/readiness"
)

// CheckResult is the outcome of one suite check.
type CheckResult struct {
	Name    string
	Err     error
	Skipped bool
	Reason  string
}

// Suite runs the boot and cgroup verification checks sequentially; each
// check owns exactly one container for its duration.
type Suite struct {
	Ctx     *CtrCtx
	Version cgroups.Version
}

type check struct {
	name string
	// skip reports a non-empty reason when the check does not apply to the
	// current manager or configuration.
	skip func(s *Suite) string
	run  func(s *Suite, ctx context.Context) error
}

var checks = []check{
	{name: "boot-privileged", run: (*Suite).checkBootPrivileged},
	{name: "boot-privileged-systemd-mode", skip: needsSystemdMode, run: (*Suite).checkBootPrivilegedSystemdMode},
	{name: "boot-non-priv-host-cgroup", skip: needsHostCgroupPassthrough, run: (*Suite).checkBootNonPrivHostCgroup},
	{name: "boot-non-priv-systemd-mode", skip: needsSystemdMode, run: (*Suite).checkBootNonPrivSystemdMode},
	{name: "cgroup-mounts", run: (*Suite).checkCgroupMounts},
	{name: "cgroup-paths", run: (*Suite).checkCgroupPaths},
	{name: "cgroup-controllers", run: (*Suite).checkCgroupControllers},
	{name: "late-exec-proc", run: (*Suite).checkLateExecProc},
	{name: "early-exec-proc", run: (*Suite).checkEarlyExecProc},
}

// Run executes all applicable checks and returns their results.
func (s *Suite) Run(ctx context.Context) []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		if c.skip != nil {
			if reason := c.skip(s); reason != "" {
				results = append(results, CheckResult{Name: c.name, Skipped: true, Reason: reason})
				continue
			}
		}
		s.Ctx.Logger.InfoContext(ctx, "running check", "check", c.name)
		err := c.run(s, ctx)
		if err != nil {
			s.Ctx.Logger.ErrorContext(ctx, "check failed", "check", c.name, "error", err)
		}
		results = append(results, CheckResult{Name: c.name, Err: err})
	}
	return results
}

// Failed reports whether any non-skipped check failed.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Skipped && r.Err != nil {
			return true
		}
	}
	return false
}

func needsSystemdMode(s *Suite) string {
	if !s.Ctx.Client.Manager().Capabilities().SystemdSupport {
		return "systemd mode requires podman"
	}
	return ""
}

func needsHostCgroupPassthrough(s *Suite) string {
	if s.Ctx.Config.SetupMode != "" {
		return "host cgroup passthrough only applies to the default setup mode"
	}
	if s.Ctx.Config.Cgroupns != CgroupnsHost {
		return "host cgroup passthrough requires the host cgroup namespace"
	}
	return ""
}

func (s *Suite) checkBootPrivileged(ctx context.Context) error {
	spec := RunSpec{LogBootOutput: true, Opts: ctr.RunOptions{Privileged: true}}
	if s.Ctx.Client.Manager().Capabilities().NeedsContainerEnv {
		spec.Opts.Envs = map[string]string{"container": s.Ctx.Client.Manager().String()}
	}
	return s.Ctx.WithContainer(ctx, spec, func(*ctr.Container) error { return nil })
}

func (s *Suite) checkBootPrivilegedSystemdMode(ctx context.Context) error {
	spec := RunSpec{LogBootOutput: true, Opts: ctr.RunOptions{Privileged: true, Systemd: "true"}}
	return s.Ctx.WithContainer(ctx, spec, func(*ctr.Container) error { return nil })
}

// checkBootNonPrivHostCgroup boots a non-privileged systemd container by
// passing the host's cgroupfs through. The bind mount only needs to be
// writable on cgroup v2.
func (s *Suite) checkBootNonPrivHostCgroup(ctx context.Context) error {
	mountOpts := "ro"
	if s.Version == cgroups.V2 {
		mountOpts = "rw"
	}
	spec := RunSpec{
		LogBootOutput: true,
		Opts: ctr.RunOptions{
			CapAdd:   []string{"sys_admin"},
			Tmpfs:    []string{"/run"},
			Volumes:  []ctr.VolumeMount{{Source: "/sys/fs/cgroup", Target: "/sys/fs/cgroup", Options: mountOpts}},
			Cgroupns: CgroupnsHost,
		},
	}
	if s.Ctx.Client.Manager().Capabilities().NeedsContainerEnv {
		spec.Opts.Envs = map[string]string{"container": s.Ctx.Client.Manager().String()}
	}
	return s.Ctx.WithContainer(ctx, spec, func(*ctr.Container) error { return nil })
}

func (s *Suite) checkBootNonPrivSystemdMode(ctx context.Context) error {
	spec := RunSpec{
		LogBootOutput: true,
		Opts:          ctr.RunOptions{CapAdd: []string{"sys_admin"}, Systemd: "true"},
	}
	return s.Ctx.WithContainer(ctx, spec, func(*ctr.Container) error { return nil })
}

func (s *Suite) defaultSpec() RunSpec {
	return RunSpec{Opts: DefaultRunOptions(s.Ctx.Client.Manager(), s.Ctx.Config.SetupMode)}
}

func (s *Suite) checkCgroupMounts(ctx context.Context) error {
	return s.Ctx.WithContainer(ctx, s.defaultSpec(), func(c *ctr.Container) error {
		out, err := c.Execute(ctx, "findmnt", "-R", "/sys/fs/cgroup")
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "cgroup mounts", "mounts", out)
		return nil
	})
}

func (s *Suite) checkCgroupPaths(ctx context.Context) error {
	return s.Ctx.WithContainer(ctx, s.defaultSpec(), func(c *ctr.Container) error {
		out, err := c.Execute(ctx, "cat", "/proc/1/cgroup")
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "pid 1 cgroups", "cgroups", out)
		pidOut, err := c.Execute(ctx, "pidof", "systemd-journald")
		if err != nil {
			return err
		}
		pid, err := strconv.Atoi(strings.TrimSpace(pidOut))
		if err != nil {
			return fmt.Errorf("parsing systemd-journald pid %q: %w", pidOut, err)
		}
		out, err = c.Execute(ctx, "cat", fmt.Sprintf("/proc/%d/cgroup", pid))
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "systemd-journald cgroups", "pid", pid, "cgroups", out)
		return nil
	})
}

func (s *Suite) checkCgroupControllers(ctx context.Context) error {
	return s.Ctx.WithContainer(ctx, s.defaultSpec(), func(c *ctr.Container) error {
		controllers, err := cgroups.EnabledControllers(ctx, c, s.Version)
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "enabled controllers", "controllers", controllers.Names())
		return s.requireControllers(ctx, controllers)
	})
}

func (s *Suite) checkLateExecProc(ctx context.Context) error {
	return s.Ctx.WithContainer(ctx, s.defaultSpec(), func(c *ctr.Container) error {
		out, err := c.Execute(ctx, "cat", "/proc/self/cgroup")
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "exec proc cgroups", "cgroups", out)
		controllers, err := cgroups.EnabledControllers(ctx, c, s.Version)
		if err != nil {
			return err
		}
		return s.requireControllers(ctx, controllers)
	})
}

// checkEarlyExecProc starts an exec process before systemd has taken over
// (the entrypoint is delayed by a second) and verifies systemd still brings
// the controllers up around it.
func (s *Suite) checkEarlyExecProc(ctx context.Context) error {
	spec := s.defaultSpec()
	spec.SkipWait = true
	entrypoint := ""
	spec.Opts.Entrypoint = &entrypoint
	init := "/sbin/init"
	if s.Ctx.Config.SetupMode != "" {
		init = "/init_script.sh"
	}
	spec.Opts.Command = []string{"bash", "-c", "sleep 1 && exec " + init}
	return s.Ctx.WithContainer(ctx, spec, func(c *ctr.Container) error {
		if err := c.ExecuteDetached(ctx, "sleep", "inf"); err != nil {
			return err
		}
		out, err := c.Execute(ctx, "cat", "/proc/self/cgroup")
		if err != nil {
			return err
		}
		s.Ctx.Logger.DebugContext(ctx, "exec proc cgroups before systemd", "cgroups", out)
		if err := readiness.WaitUntilReady(ctx, s.Ctx.Logger, c,
			s.Ctx.Config.BootTimeout, s.Ctx.Config.PollInterval); err != nil {
			return err
		}
		controllers, err := cgroups.EnabledControllers(ctx, c, s.Version)
		if err != nil {
			return err
		}
		return s.requireControllers(ctx, controllers)
	})
}

func (s *Suite) requireControllers(ctx context.Context, controllers cgroups.ControllerSet) error {
	if s.Ctx.Config.SetupMode == "minimal" {
		// Minimal mode mounts no resource controllers at all.
		s.Ctx.Logger.WarnContext(ctx, "controllers not enabled with minimal setup mode")
		return nil
	}
	if !controllers.Contains("memory", "pids") {
		return fmt.Errorf("%w: expected memory and pids controllers, got %v",
			errdefs.ErrCheckFailed, controllers.Names())
	}
	return nil
}
