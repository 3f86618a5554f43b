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

// Package readiness implements the boot-readiness polling protocol for
// systemd containers: a status command is retried on a fixed cadence until
// systemd reports ready, the retry budget elapses, or an unexpected failure
// surfaces.
package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/errdefs"
)

// StatusRunner is the slice of the container handle the poller needs.
type StatusRunner interface {
	Execute(ctx context.Context, argv ...string) (string, error)
	Logs(ctx context.Context) (string, error)
}

// Outcome classifies a single readiness probe.
type Outcome int

const (
	// Ready means systemd reported its service set has finished starting.
	Ready Outcome = iota
	// Retry means systemd has not come up yet: either systemctl printed
	// the "offline" state or the D-Bus socket does not exist yet.
	Retry
	// Failed means boot failed in a way retrying will not fix.
	Failed
)

var statusArgv = []string{"systemctl", "is-system-running", "--wait"}

// Classify maps a status command result onto an Outcome. A nil error is
// Ready. Only the two known still-starting signals map to Retry; every other
// command failure is Failed.
func Classify(err error) Outcome {
	if err == nil {
		return Ready
	}
	cmdErr, ok := ctr.AsCmdError(err)
	if !ok {
		return Failed
	}
	if strings.TrimSpace(cmdErr.Stdout) == consts.OfflineSentinel ||
		strings.Contains(cmdErr.Stderr, consts.BusNotReadySentinel) {
		return Retry
	}
	return Failed
}

// WaitUntilReady polls the container's systemd state until it reports ready
// or timeout elapses. The deadline is computed once and re-checked each
// iteration; transient still-starting signals are absorbed, everything else
// fails immediately. On failure the container's full boot log is emitted at
// error level before errdefs.ErrInit is returned, carrying the last observed
// status output. The container is left running; teardown is the caller's
// responsibility.
func WaitUntilReady(ctx context.Context, logger *slog.Logger, c StatusRunner, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		out, err := c.Execute(ctx, statusArgv...)
		switch Classify(err) {
		case Ready:
			logger.DebugContext(ctx, "systemd reported ready")
			return nil
		case Retry:
			if time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
				continue
			}
		case Failed:
			if _, ok := ctr.AsCmdError(err); !ok {
				// Unknown failure, not a status-command exit: propagate as-is.
				return err
			}
		}
		if cmdErr, ok := ctr.AsCmdError(err); ok {
			out = cmdErr.Stdout
		}
		surfaceBootLogs(ctx, logger, c)
		return fmt.Errorf("%w: systemd container failed to start: %s", errdefs.ErrInit, strings.TrimSpace(out))
	}
}

func surfaceBootLogs(ctx context.Context, logger *slog.Logger, c StatusRunner) {
	logs, err := c.Logs(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch container boot logs", "error", err)
		return
	}
	logger.ErrorContext(ctx, "container boot logs", "logs", logs)
}

// WaitFor polls cond until it reports true or timeout elapses, for non-boot
// waits. Errors returned by cond are retried and kept as the cause of the
// eventual errdefs.ErrTimeout.
func WaitFor(ctx context.Context, logger *slog.Logger, description string, cond func() (bool, error), timeout, interval time.Duration) error {
	logger.InfoContext(ctx, "waiting for condition", "description", description, "timeout", timeout)
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			logger.DebugContext(ctx, "ready condition met", "description", description)
			return nil
		}
		lastErr = err
		if !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	err := fmt.Errorf("%w after %s waiting for %s", errdefs.ErrTimeout, timeout, description)
	if lastErr != nil {
		err = fmt.Errorf("%w: last error: %w", err, lastErr)
	}
	return err
}
