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

// Package cgroups detects the container host's cgroup version and inspects
// which resource controllers are active for a running container.
package cgroups

import (
	"context"
	"fmt"
	"strings"

	cgutil "github.com/containerd/cgroups/v2"
	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// Version is the cgroup hierarchy version of the container host, fixed for
// the lifetime of a run.
type Version int

const (
	// V1 is the multi-hierarchy legacy layout.
	V1 Version = 1
	// V2 is the single unified hierarchy.
	V2 Version = 2
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// runner is the slice of the manager client Detect needs.
type runner interface {
	Run(ctx context.Context, image string, opts ctr.RunOptions) (*ctr.Container, error)
}

// Detect determines the cgroup version of the container host by checking the
// filesystem type of /sys/fs/cgroup inside a throwaway container. Checking
// inside a container rather than on the local machine keeps remote hosts
// working.
func Detect(ctx context.Context, client runner) (Version, error) {
	c, err := client.Run(ctx, consts.BaseImage, ctr.RunOptions{
		Detach:  false,
		Remove:  true,
		Command: []string{"stat", "-f", consts.CgroupFilesystemPath + "/", "-c", "%T"},
	})
	if err != nil {
		return 0, fmt.Errorf("running cgroup version probe: %w", err)
	}
	switch fstype := strings.TrimSpace(c.Output); fstype {
	case "tmpfs":
		return V1, nil
	case "cgroup2fs":
		return V2, nil
	default:
		return 0, fmt.Errorf("%w: %q", errdefs.ErrUnknownCgroupFs, fstype)
	}
}

// HostMode reports the local machine's cgroup version, for cross-checking
// Detect when not driving a remote host. The second result is false when the
// local hierarchy is unavailable.
func HostMode() (Version, bool) {
	switch cgutil.Mode() {
	case cgutil.Unified:
		return V2, true
	case cgutil.Legacy, cgutil.Hybrid:
		return V1, true
	default:
		return 0, false
	}
}
