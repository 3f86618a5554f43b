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
	"os"
	"path/filepath"
	"strings"
)

// Build builds an image from a dockerfile given as a string, writing it into
// a temporary file next to the build context. Returns the first tag, or the
// trailing line of build output (the image ID) when no tag was given.
func (c *Client) Build(ctx context.Context, dockerfile string, opts BuildOptions) (string, error) {
	tmpdir, err := os.MkdirTemp("", "ctr-build-root-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpdir)

	dockerfilePath := filepath.Join(tmpdir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o644); err != nil {
		return "", err
	}
	buildRoot := opts.BuildRoot
	if buildRoot == "" {
		buildRoot = tmpdir
	}

	args := []string{"build", "--file", dockerfilePath}
	for _, tag := range opts.Tags {
		args = append(args, "--tag", tag)
	}
	args = append(args, buildRoot)

	c.logger.DebugContext(ctx, "building image", "tags", strings.Join(opts.Tags, ","), "dockerfile", strings.TrimSpace(dockerfile))
	out, err := c.command(ctx, args...)
	if err != nil {
		return "", err
	}
	if len(opts.Tags) > 0 {
		return opts.Tags[0], nil
	}
	lines := strings.Fields(strings.TrimSpace(out))
	if len(lines) == 0 {
		return "", nil
	}
	return lines[len(lines)-1], nil
}
