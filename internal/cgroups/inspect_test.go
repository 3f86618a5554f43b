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

package cgroups_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/sdcheck/sdcheck/internal/cgroups"
	"github.com/sdcheck/sdcheck/internal/ctr"
)

type fakeResponse struct {
	out string
	err error
}

// fakeExecutor maps a joined argv to its canned response.
type fakeExecutor struct {
	responses map[string]fakeResponse
	calls     []string
}

func (f *fakeExecutor) Execute(_ context.Context, argv ...string) (string, error) {
	key := strings.Join(argv, " ")
	f.calls = append(f.calls, key)
	resp, ok := f.responses[key]
	if !ok {
		return "", &ctr.CmdError{ExitCode: 127, Stderr: "unexpected command: " + key}
	}
	return resp.out, resp.err
}

func sortedNames(s cgroups.ControllerSet) []string {
	names := s.Names()
	sort.Strings(names)
	return names
}

func TestEnabledControllersV1(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"find /sys/fs/cgroup -type d -name system.slice": {
			out: "/sys/fs/cgroup/memory/system.slice\n/sys/fs/cgroup/systemd/system.slice",
		},
	}}

	got, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V1)
	if err != nil {
		t.Fatalf("EnabledControllers() error = %v", err)
	}
	want := []string{"memory"}
	if names := sortedNames(got); !equalStrings(names, want) {
		t.Errorf("EnabledControllers() = %v, want %v", names, want)
	}
}

func TestEnabledControllersV1ExcludesBookkeepingEntries(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"find /sys/fs/cgroup -type d -name system.slice": {
			out: strings.Join([]string{
				"/sys/fs/cgroup/memory/system.slice",
				"/sys/fs/cgroup/pids/system.slice",
				"/sys/fs/cgroup/cpu,cpuacct/system.slice",
				"/sys/fs/cgroup/systemd/system.slice",
				"/sys/fs/cgroup/unified/system.slice",
			}, "\n"),
		},
	}}

	got, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V1)
	if err != nil {
		t.Fatalf("EnabledControllers() error = %v", err)
	}
	want := []string{"cpu,cpuacct", "memory", "pids"}
	if names := sortedNames(got); !equalStrings(names, want) {
		t.Errorf("EnabledControllers() = %v, want %v", names, want)
	}
}

func TestEnabledControllersV2(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"grep 0:: /proc/1/cgroup":                                        {out: "0::/system.slice/foo.service"},
		"ls /sys/fs/cgroup/system.slice/foo.service":                     {out: "cgroup.controllers\ncgroup.procs"},
		"cat /sys/fs/cgroup/system.slice/foo.service/cgroup.controllers": {out: "cpu memory pids"},
	}}

	got, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	if err != nil {
		t.Fatalf("EnabledControllers() error = %v", err)
	}
	want := []string{"cpu", "memory", "pids"}
	if names := sortedNames(got); !equalStrings(names, want) {
		t.Errorf("EnabledControllers() = %v, want %v", names, want)
	}
}

func TestEnabledControllersV2FallbackPath(t *testing.T) {
	// With a pseudo-private bind mount the container only sees the tail of
	// its true cgroup path; the inspector strips the two leading segments
	// and retries.
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"grep 0:: /proc/1/cgroup": {out: "0::/machine.slice/libpod-abc.scope/container"},
		"ls /sys/fs/cgroup/machine.slice/libpod-abc.scope/container": {
			err: &ctr.CmdError{ExitCode: 2, Stderr: "ls: cannot access"},
		},
		"cat /sys/fs/cgroup/container/cgroup.controllers": {out: "cpu memory pids"},
	}}

	got, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	if err != nil {
		t.Fatalf("EnabledControllers() error = %v", err)
	}
	want := []string{"cpu", "memory", "pids"}
	if names := sortedNames(got); !equalStrings(names, want) {
		t.Errorf("EnabledControllers() = %v, want %v", names, want)
	}
}

func TestEnabledControllersIdempotent(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"grep 0:: /proc/1/cgroup":                         {out: "0::/init.scope"},
		"ls /sys/fs/cgroup/init.scope":                    {out: "cgroup.controllers"},
		"cat /sys/fs/cgroup/init.scope/cgroup.controllers": {out: "memory pids"},
	}}

	first, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	if err != nil {
		t.Fatalf("first EnabledControllers() error = %v", err)
	}
	second, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	if err != nil {
		t.Fatalf("second EnabledControllers() error = %v", err)
	}
	if !equalStrings(sortedNames(first), sortedNames(second)) {
		t.Errorf("EnabledControllers() not idempotent: %v vs %v", sortedNames(first), sortedNames(second))
	}
}

func TestEnabledControllersV1PropagatesCommandFailure(t *testing.T) {
	cmdErr := &ctr.CmdError{ExitCode: 1, Stderr: "find: permission denied"}
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"find /sys/fs/cgroup -type d -name system.slice": {err: cmdErr},
	}}

	_, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V1)
	var got *ctr.CmdError
	if !errors.As(err, &got) || got != cmdErr {
		t.Fatalf("EnabledControllers() error = %v, want the original command error", err)
	}
	if len(exec.calls) != 1 {
		t.Errorf("inspection retried: %d calls, want 1", len(exec.calls))
	}
}

func TestEnabledControllersV2PropagatesReadFailure(t *testing.T) {
	cmdErr := &ctr.CmdError{ExitCode: 1, Stderr: "cat: no such file"}
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"grep 0:: /proc/1/cgroup":                          {out: "0::/init.scope"},
		"ls /sys/fs/cgroup/init.scope":                     {out: ""},
		"cat /sys/fs/cgroup/init.scope/cgroup.controllers": {err: cmdErr},
	}}

	_, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	var got *ctr.CmdError
	if !errors.As(err, &got) || got != cmdErr {
		t.Fatalf("EnabledControllers() error = %v, want the original command error", err)
	}
}

func TestEnabledControllersV2MalformedCgroupEntry(t *testing.T) {
	exec := &fakeExecutor{responses: map[string]fakeResponse{
		"grep 0:: /proc/1/cgroup": {out: "garbage"},
	}}

	_, err := cgroups.EnabledControllers(context.Background(), exec, cgroups.V2)
	if err == nil {
		t.Fatal("EnabledControllers() error = nil, want parse error")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
