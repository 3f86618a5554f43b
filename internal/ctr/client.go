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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Result captures the outcome of a single manager CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes the container manager binary. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, exe string, args []string, extraEnv []string) (Result, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, exe string, args []string, extraEnv []string) (Result, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Client drives a container manager through its CLI. The CLI surface is the
// collaborator contract; docker and podman expose the same verbs.
type Client struct {
	exe    string
	host   string
	mgr    Manager
	logger *slog.Logger
	runner Runner
}

// NewClient builds a client for the given executable, detecting the manager
// from its name. host, when non-empty, is exported to child processes via
// the manager's remote-host environment variable.
func NewClient(logger *slog.Logger, exe, host string) (*Client, error) {
	return NewClientWithRunner(logger, exe, host, execRunner{})
}

// NewClientWithRunner is NewClient with an injected command runner.
func NewClientWithRunner(logger *slog.Logger, exe, host string, runner Runner) (*Client, error) {
	mgr, err := ManagerFromExe(exe)
	if err != nil {
		return nil, err
	}
	return &Client{
		exe:    exe,
		host:   host,
		mgr:    mgr,
		logger: logger,
		runner: runner,
	}, nil
}

// Manager returns the detected container manager.
func (c *Client) Manager() Manager {
	return c.mgr
}

// Exe returns the manager executable.
func (c *Client) Exe() string {
	return c.exe
}

// Info runs `<exe> info` and returns its output, for host checks.
func (c *Client) Info(ctx context.Context) (string, error) {
	return c.command(ctx, "info")
}

// command invokes the manager CLI, returning stdout and a *CmdError on
// non-zero exit.
func (c *Client) command(ctx context.Context, args ...string) (string, error) {
	c.logger.DebugContext(ctx, "running manager command", "exe", c.exe, "args", strings.Join(args, " "))
	res, err := c.runner.Run(ctx, c.exe, args, c.extraEnv())
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		cmdErr := newCmdError(res.ExitCode, res.Stdout, res.Stderr)
		c.logger.DebugContext(ctx, "manager command failed",
			"exit_code", res.ExitCode,
			"stdout", strings.TrimSpace(res.Stdout),
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return res.Stdout, cmdErr
	}
	return res.Stdout, nil
}

func (c *Client) extraEnv() []string {
	if c.host == "" {
		return nil
	}
	return []string{c.mgr.Capabilities().RemoteHostEnv + "=" + c.host}
}
