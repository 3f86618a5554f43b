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

// Package harness wires the container client, readiness poller and cgroup
// inspector into runnable boot and cgroup verification checks.
package harness

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sdcheck/sdcheck/internal/cgroups"
	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// Cgroup namespace modes.
const (
	CgroupnsHost    = "host"
	CgroupnsPrivate = "private"
)

// Systemd cgroup modes.
const (
	CgroupModeLegacy  = "legacy"
	CgroupModeHybrid  = "hybrid"
	CgroupModeUnified = "unified"
)

// Config is the harness configuration, explicit rather than ambient so the
// poller and inspector stay pure functions of their inputs.
type Config struct {
	// ContainerExe is the manager executable, docker or podman.
	ContainerExe string `yaml:"containerExe"`
	// ContainerHost is an optional remote host URI.
	ContainerHost string `yaml:"containerHost"`
	// SetupMode selects the pre-systemd init script baked into the image.
	// Empty means the plain systemd entrypoint.
	SetupMode string `yaml:"setupMode"`
	// Cgroupns is the cgroup namespace mode for containers.
	Cgroupns string `yaml:"cgroupns"`
	// CgroupMode is the systemd cgroup mode to force.
	CgroupMode string `yaml:"cgroupMode"`
	// BootTimeout bounds the readiness wait.
	BootTimeout time.Duration `yaml:"bootTimeout"`
	// PollInterval is the readiness poll cadence.
	PollInterval time.Duration `yaml:"pollInterval"`
	// KeepContainers skips container removal, for debugging.
	KeepContainers bool `yaml:"keepContainers"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ContainerExe: "docker",
		Cgroupns:     CgroupnsHost,
		BootTimeout:  consts.DefaultBootTimeout,
		PollInterval: consts.DefaultPollInterval,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", errdefs.ErrConfig, err)
	}
	return cfg, nil
}

// Validate checks the configuration against the host's cgroup version,
// rejecting combinations that cannot run rather than letting them fail
// obscurely at boot.
func (c Config) Validate(v cgroups.Version) error {
	if c.Cgroupns != CgroupnsHost && c.Cgroupns != CgroupnsPrivate {
		return fmt.Errorf("%w: %q", errdefs.ErrInvalidCgroupns, c.Cgroupns)
	}
	switch c.CgroupMode {
	case "":
	case CgroupModeLegacy, CgroupModeHybrid:
		if v != cgroups.V1 {
			return fmt.Errorf("%w: %s requires a cgroup v1 host", errdefs.ErrModeNotApplicable, c.CgroupMode)
		}
	case CgroupModeUnified:
		if v != cgroups.V2 {
			return fmt.Errorf("%w: unified requires a cgroup v2 host", errdefs.ErrModeNotApplicable)
		}
	default:
		return fmt.Errorf("%w: %q", errdefs.ErrInvalidCgroupMode, c.CgroupMode)
	}
	if c.SetupMode != "" && !slices.Contains(SetupModes(), c.SetupMode) {
		return fmt.Errorf("%w: %q", errdefs.ErrUnknownSetupMode, c.SetupMode)
	}
	if v == cgroups.V2 && c.SetupMode == "minimal" {
		return fmt.Errorf("%w: setup mode minimal does not apply on cgroup v2", errdefs.ErrModeNotApplicable)
	}
	if c.Cgroupns == CgroupnsPrivate {
		switch c.SetupMode {
		case "rebind", "cgroupns", "cgroupns_simple":
			return fmt.Errorf(
				"%w: setup mode %s requires the host cgroup namespace",
				errdefs.ErrModeNotApplicable, c.SetupMode,
			)
		}
	}
	return nil
}
