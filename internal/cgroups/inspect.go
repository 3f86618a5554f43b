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

package cgroups

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/ctr"
)

// Executor runs commands inside a running container.
type Executor interface {
	Execute(ctx context.Context, argv ...string) (string, error)
}

// ControllerSet is a set of controller names such as "memory" or "pids".
type ControllerSet map[string]struct{}

// Contains reports whether every name in names is in the set.
func (s ControllerSet) Contains(names ...string) bool {
	for _, n := range names {
		if _, ok := s[n]; !ok {
			return false
		}
	}
	return true
}

// Names returns the controller names, unordered.
func (s ControllerSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}

// EnabledControllers determines the resource controllers active for the
// container's process tree. The result is computed fresh on every call; any
// command failure beyond the single documented v2 fallback propagates
// unchanged, since this is a diagnostic read rather than a liveness probe.
func EnabledControllers(ctx context.Context, c Executor, v Version) (ControllerSet, error) {
	if v == V1 {
		return enabledControllersV1(ctx, c)
	}
	return enabledControllersV2(ctx, c)
}

// enabledControllersV1 scans for system.slice directories: on v1 each
// controller subsystem is its own hierarchy under the mount, and systemd
// creates system.slice in the ones it manages. The "systemd" and "unified"
// entries are bookkeeping hierarchies, not resource controllers.
func enabledControllersV1(ctx context.Context, c Executor) (ControllerSet, error) {
	out, err := c.Execute(ctx, "find", consts.CgroupFilesystemPath, "-type", "d", "-name", "system.slice")
	if err != nil {
		return nil, err
	}
	controllers := make(ControllerSet)
	for _, line := range strings.Split(out, "\n") {
		rel := strings.TrimPrefix(strings.TrimSpace(line), consts.CgroupFilesystemPath+"/")
		if rel == "" {
			continue
		}
		subsystem := strings.SplitN(rel, "/", 2)[0]
		if subsystem == "systemd" || subsystem == "unified" {
			continue
		}
		controllers[subsystem] = struct{}{}
	}
	return controllers, nil
}

// enabledControllersV2 reads the init process's cgroup path from the unified
// hierarchy entry of /proc/1/cgroup and lists that cgroup's
// cgroup.controllers file. With cgroupns=host the manager bind-mounts a
// pseudo-private view, so the full path may not be visible inside the
// container; stripping the two leading segments finds the visible sub-path.
func enabledControllersV2(ctx context.Context, c Executor) (ControllerSet, error) {
	out, err := c.Execute(ctx, "grep", "0::", "/proc/1/cgroup")
	if err != nil {
		return nil, err
	}
	fields := strings.SplitN(strings.TrimSpace(out), ":", 3)
	if len(fields) != 3 {
		return nil, fmt.Errorf("unexpected /proc/1/cgroup entry: %q", strings.TrimSpace(out))
	}
	rel := strings.TrimLeft(fields[2], "/")

	if _, err := c.Execute(ctx, "ls", path.Join(consts.CgroupFilesystemPath, rel)); err != nil {
		if _, ok := ctr.AsCmdError(err); !ok {
			return nil, err
		}
		parts := strings.SplitN(rel, "/", 3)
		rel = parts[len(parts)-1]
	}

	out, err = c.Execute(ctx, "cat", path.Join(consts.CgroupFilesystemPath, rel, "cgroup.controllers"))
	if err != nil {
		return nil, err
	}
	controllers := make(ControllerSet)
	for _, name := range strings.Fields(out) {
		controllers[name] = struct{}{}
	}
	return controllers, nil
}
