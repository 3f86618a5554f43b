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
	"os"
	"strings"

	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// Mount is one row of the host mount table.
type Mount struct {
	Device string
	Path   string
	Type   string
	Opts   string
}

// ParseMounts parses /proc/mounts content into mount rows. Lines with fewer
// than four fields are skipped.
func ParseMounts(content string) []Mount {
	var mounts []Mount
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		mounts = append(mounts, Mount{
			Device: fields[0],
			Path:   fields[1],
			Type:   fields[2],
			Opts:   fields[3],
		})
	}
	return mounts
}

// HostMounts reads and parses the local mount table.
func HostMounts() ([]Mount, error) {
	content, err := os.ReadFile(consts.ProcMountsPath)
	if err != nil {
		return nil, err
	}
	return ParseMounts(string(content)), nil
}

// CheckSystemdMount verifies that a v1 host has the systemd bookkeeping
// hierarchy mounted; default systemd containers cannot boot without it.
// No-op on v2.
func CheckSystemdMount(v Version, mounts []Mount) error {
	if v != V1 {
		return nil
	}
	for _, m := range mounts {
		if m.Path == consts.CgroupFilesystemPath+"/systemd" && m.Type == "cgroup" {
			return nil
		}
	}
	return errdefs.ErrSystemdMountAbsent
}
