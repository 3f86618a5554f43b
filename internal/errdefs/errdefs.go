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

package errdefs

import (
	"errors"
)

var (
	ErrConfig             = errors.New("config error")
	ErrInit               = errors.New("container failed to reach ready state")
	ErrTimeout            = errors.New("timed out")
	ErrUnsupportedManager = errors.New("unrecognised container manager executable")
	ErrUnknownCgroupFs    = errors.New("unable to determine cgroup version from filesystem type")
	ErrSystemdMountAbsent = errors.New("host does not have /sys/fs/cgroup/systemd mounted")
	ErrSystemdModeDocker  = errors.New("systemd mode is not supported by docker")
	ErrAttachedRun        = errors.New("running a systemd container attached is not supported")
	ErrRemoveOnExit       = errors.New("removing the container on exit breaks log capture")
	ErrInvalidCgroupns    = errors.New("invalid cgroup namespace mode")
	ErrInvalidCgroupMode  = errors.New("invalid systemd cgroup mode")
	ErrUnknownSetupMode   = errors.New("unknown setup mode")
	ErrModeNotApplicable  = errors.New("configuration not applicable on this host")
	ErrCheckFailed        = errors.New("suite check failed")
)
