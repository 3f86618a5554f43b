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
	"errors"
	"fmt"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
)

// CmdError reports a non-zero exit from a container manager command,
// carrying both output streams for diagnosis.
type CmdError struct {
	ExitCode int
	Stdout   string
	Stderr   string

	// cause is the classified error category, when one applies.
	cause error
}

func (e *CmdError) Error() string {
	msg := fmt.Sprintf("command failed with exit code %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return msg + ": " + s
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		return msg + ": " + s
	}
	return msg
}

func (e *CmdError) Unwrap() error {
	return e.cause
}

// AsCmdError extracts a CmdError from an error chain.
func AsCmdError(err error) (*CmdError, bool) {
	var cmdErr *CmdError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}

func newCmdError(exitCode int, stdout, stderr string) *CmdError {
	return &CmdError{
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		cause:    classifyStderr(stderr),
	}
}

// classifyStderr maps well-known CLI failure messages onto containerd error
// categories so callers can use errdefs.IsNotFound and friends.
func classifyStderr(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "no such container"),
		strings.Contains(lower, "no such object"),
		strings.Contains(lower, "no such image"):
		return cerrdefs.ErrNotFound
	case strings.Contains(lower, "cannot connect to the docker daemon"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "unable to connect to podman"):
		return cerrdefs.ErrUnavailable
	default:
		return nil
	}
}
