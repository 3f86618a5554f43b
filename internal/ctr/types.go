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

// VolumeMount describes a single --volume argument.
type VolumeMount struct {
	// Source is the host path.
	Source string
	// Target is the path inside the container.
	Target string
	// Options are mount options such as "ro" or "rw". Optional.
	Options string
}

// RunOptions describes how to run a new container.
type RunOptions struct {
	// Name is the container name. If empty a name is generated.
	Name string
	// Detach runs the container in the background and returns a handle.
	// When false the container runs to completion and its stdout is
	// returned on Container.Output.
	Detach bool
	// Remove deletes the container when it exits.
	Remove bool
	// TTY allocates a pseudo-terminal.
	TTY bool
	// Interactive keeps stdin open.
	Interactive bool
	// Privileged runs the container with full privileges.
	Privileged bool
	// CapAdd lists extra capabilities, e.g. "sys_admin".
	CapAdd []string
	// Tmpfs lists tmpfs mount targets, e.g. "/run".
	Tmpfs []string
	// Envs are environment variables set inside the container.
	Envs map[string]string
	// Volumes are bind mounts.
	Volumes []VolumeMount
	// Cgroupns is the cgroup namespace mode, "host" or "private". Optional.
	Cgroupns string
	// Systemd is podman's systemd mode: "true", "false" or "always".
	// Empty means the flag is not passed. Rejected for docker.
	Systemd string
	// Entrypoint overrides the image entrypoint when non-nil. An empty
	// string clears it.
	Entrypoint *string
	// Command is the command run in the container, after the image.
	Command []string
}

// BuildOptions describes how to build an image from a dockerfile string.
type BuildOptions struct {
	// Tags to apply to the built image. The first tag is returned as the
	// image reference.
	Tags []string
	// BuildRoot is the build context directory. A temporary directory is
	// used when empty.
	BuildRoot string
}

// State is the subset of `inspect` container state the harness relies on.
type State struct {
	Status   string `json:"Status"`
	Running  bool   `json:"Running"`
	ExitCode int    `json:"ExitCode"`
}
