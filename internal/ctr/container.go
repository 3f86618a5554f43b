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
	"encoding/json"
	"fmt"
	"strings"
)

// Container is a handle to a container managed through the CLI.
type Container struct {
	client *Client

	// ID is the container ID as printed by a detached run.
	ID string
	// Name is the container name, when one was given.
	Name string
	// Output holds stdout for containers that ran attached to completion.
	Output string
}

// ref returns the identifier used to address the container on the CLI.
func (c *Container) ref() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}

// Execute runs argv inside the running container and returns its stdout with
// the trailing newline trimmed. Non-zero exits surface as *CmdError.
func (c *Container) Execute(ctx context.Context, argv ...string) (string, error) {
	args := append([]string{"exec", c.ref()}, argv...)
	out, err := c.client.command(ctx, args...)
	if err != nil {
		return out, err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// ExecuteDetached runs argv inside the container in the background.
func (c *Container) ExecuteDetached(ctx context.Context, argv ...string) error {
	args := append([]string{"exec", "--detach", c.ref()}, argv...)
	_, err := c.client.command(ctx, args...)
	return err
}

// Logs returns the container's console output, combining both streams since
// `logs` splits boot output across them.
func (c *Container) Logs(ctx context.Context) (string, error) {
	res, err := c.client.runner.Run(ctx, c.client.exe, []string{"logs", c.ref()}, c.client.extraEnv())
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", newCmdError(res.ExitCode, res.Stdout, res.Stderr)
	}
	return res.Stdout + res.Stderr, nil
}

// Remove deletes the container.
func (c *Container) Remove(ctx context.Context, force bool) error {
	args := []string{"rm"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, c.ref())
	_, err := c.client.command(ctx, args...)
	return err
}

// State inspects the container's current state.
func (c *Container) State(ctx context.Context) (State, error) {
	out, err := c.client.command(ctx, "inspect", "--format", "{{json .State}}", c.ref())
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &st); err != nil {
		return State{}, fmt.Errorf("parsing inspect state: %w", err)
	}
	return st, nil
}
