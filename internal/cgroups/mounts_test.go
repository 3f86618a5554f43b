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

package cgroups_test

import (
	"errors"
	"testing"

	"github.com/sdcheck/sdcheck/internal/cgroups"
	"github.com/sdcheck/sdcheck/internal/errdefs"
)

const sampleMounts = `sysfs /sys sysfs rw,nosuid,nodev,noexec,relatime 0 0
tmpfs /sys/fs/cgroup tmpfs ro,nosuid,nodev,noexec,mode=755 0 0
cgroup /sys/fs/cgroup/systemd cgroup rw,nosuid,nodev,noexec,relatime,xattr,name=systemd 0 0
cgroup /sys/fs/cgroup/memory cgroup rw,nosuid,nodev,noexec,relatime,memory 0 0
malformed-line
`

func TestParseMounts(t *testing.T) {
	mounts := cgroups.ParseMounts(sampleMounts)
	if len(mounts) != 4 {
		t.Fatalf("ParseMounts() returned %d rows, want 4", len(mounts))
	}
	got := mounts[2]
	if got.Device != "cgroup" || got.Path != "/sys/fs/cgroup/systemd" || got.Type != "cgroup" {
		t.Errorf("ParseMounts()[2] = %+v, want the systemd hierarchy row", got)
	}
}

func TestCheckSystemdMount(t *testing.T) {
	withSystemd := cgroups.ParseMounts(sampleMounts)
	withoutSystemd := []cgroups.Mount{
		{Device: "cgroup2", Path: "/sys/fs/cgroup", Type: "cgroup2", Opts: "rw"},
	}

	tests := []struct {
		name    string
		version cgroups.Version
		mounts  []cgroups.Mount
		wantErr error
	}{
		{name: "v1 with systemd hierarchy", version: cgroups.V1, mounts: withSystemd},
		{name: "v1 missing systemd hierarchy", version: cgroups.V1, mounts: withoutSystemd, wantErr: errdefs.ErrSystemdMountAbsent},
		{name: "v2 never requires it", version: cgroups.V2, mounts: withoutSystemd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cgroups.CheckSystemdMount(tt.version, tt.mounts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckSystemdMount() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
