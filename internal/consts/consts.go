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

package consts

import "time"

const (
	// CgroupFilesystemPath is the canonical cgroup mount inside containers and hosts.
	CgroupFilesystemPath = "/sys/fs/cgroup"
	// ProcMountsPath is the host mount table used for v1 sanity checks.
	ProcMountsPath = "/proc/mounts"

	// BaseImage is the image used for the cgroup version probe and as the
	// base of the systemd image.
	BaseImage = "ubuntu:20.04"
	// SystemdImageTag is the tag given to the built systemd base image.
	SystemdImageTag = "ubuntu-systemd:20.04"

	// ContainerNamePrefix prefixes generated container names.
	ContainerNamePrefix = "sdcheck"

	// OfflineSentinel is the stdout emitted by systemctl while systemd is
	// still coming up (or has not taken over from a pre-init script yet).
	OfflineSentinel = "offline"
	// BusNotReadySentinel appears on stderr while the D-Bus socket inside
	// the container does not exist yet.
	BusNotReadySentinel = "Failed to connect to bus"

	// DefaultBootTimeout bounds the wait for systemd to report ready.
	DefaultBootTimeout = 5 * time.Second
	// DefaultPollInterval is the cadence of readiness checks.
	DefaultPollInterval = 100 * time.Millisecond
)
