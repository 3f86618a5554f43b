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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// Run starts a container from image. For detached runs the returned handle
// refers to the running container; otherwise the container has already
// exited and its stdout is available on Container.Output.
func (c *Client) Run(ctx context.Context, image string, opts RunOptions) (*Container, error) {
	if opts.Systemd != "" && !c.mgr.Capabilities().SystemdSupport {
		return nil, errdefs.ErrSystemdModeDocker
	}
	args, err := runArgs(image, opts)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "running container",
		"image", image,
		"name", opts.Name,
		"args", strings.Join(args, " "),
	)
	out, err := c.command(ctx, args...)
	if err != nil {
		return nil, err
	}
	ctr := &Container{client: c, Name: opts.Name}
	if opts.Detach {
		// `run -d` prints the container ID.
		ctr.ID = strings.TrimSpace(out)
	} else {
		ctr.Output = out
	}
	return ctr, nil
}

func runArgs(image string, opts RunOptions) ([]string, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: image reference is required", errdefs.ErrConfig)
	}
	args := []string{"run"}
	if opts.Detach {
		args = append(args, "--detach")
	}
	if opts.Remove {
		args = append(args, "--rm")
	}
	if opts.TTY {
		args = append(args, "--tty")
	}
	if opts.Interactive {
		args = append(args, "--interactive")
	}
	if opts.Privileged {
		args = append(args, "--privileged")
	}
	for _, cap := range opts.CapAdd {
		args = append(args, "--cap-add", cap)
	}
	for _, target := range opts.Tmpfs {
		args = append(args, "--tmpfs", target)
	}
	for _, k := range sortedKeys(opts.Envs) {
		args = append(args, "--env", k+"="+opts.Envs[k])
	}
	for _, v := range opts.Volumes {
		spec := v.Source + ":" + v.Target
		if v.Options != "" {
			spec += ":" + v.Options
		}
		args = append(args, "--volume", spec)
	}
	if opts.Cgroupns != "" {
		args = append(args, "--cgroupns", opts.Cgroupns)
	}
	if opts.Systemd != "" {
		args = append(args, "--systemd", opts.Systemd)
	}
	if opts.Entrypoint != nil {
		args = append(args, "--entrypoint", *opts.Entrypoint)
	}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	args = append(args, image)
	args = append(args, opts.Command...)
	return args, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
