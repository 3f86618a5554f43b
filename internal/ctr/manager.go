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

package ctr

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// Manager identifies the container manager driving the containers.
type Manager string

const (
	// ManagerDocker is the docker CLI.
	ManagerDocker Manager = "docker"
	// ManagerPodman is the podman CLI.
	ManagerPodman Manager = "podman"
)

func (m Manager) String() string {
	return string(m)
}

// ManagerFromExe detects the manager from the executable name, matching on
// the basename so wrappers like /usr/local/bin/podman-remote still resolve.
func ManagerFromExe(exe string) (Manager, error) {
	base := filepath.Base(exe)
	for _, m := range []Manager{ManagerDocker, ManagerPodman} {
		if strings.Contains(base, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errdefs.ErrUnsupportedManager, exe)
}

// Capabilities captures the per-manager differences that drive default
// container arguments, replacing scattered docker-vs-podman branches.
type Capabilities struct {
	// SystemdSupport reports whether the manager has a native systemd mode.
	SystemdSupport bool
	// NeedsContainerEnv reports whether the 'container' env var must be set
	// manually for systemd to detect it is containerised.
	NeedsContainerEnv bool
	// NeedsRunTmpfs reports whether /run must be mounted as tmpfs manually.
	NeedsRunTmpfs bool
	// DefaultPrivileged reports whether systemd containers need privileged
	// mode by default (rather than just CAP_SYS_ADMIN).
	DefaultPrivileged bool
	// RemoteHostEnv is the environment variable carrying the remote host URI.
	RemoteHostEnv string
}

var capabilities = map[Manager]Capabilities{
	ManagerDocker: {
		SystemdSupport:    false,
		NeedsContainerEnv: true,
		NeedsRunTmpfs:     true,
		DefaultPrivileged: true,
		RemoteHostEnv:     "DOCKER_HOST",
	},
	ManagerPodman: {
		SystemdSupport:    true,
		NeedsContainerEnv: false,
		NeedsRunTmpfs:     false,
		DefaultPrivileged: false,
		RemoteHostEnv:     "CONTAINER_HOST",
	},
}

// Capabilities returns the capability table entry for the manager.
func (m Manager) Capabilities() Capabilities {
	return capabilities[m]
}
