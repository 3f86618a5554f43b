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

package ctr_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sdcheck/sdcheck/internal/ctr"
)

// runContainer starts a fake detached container so the handle is wired to the
// same recording runner.
func runContainer(t *testing.T, runner *fakeRunner) *ctr.Container {
	t.Helper()
	runner.results = append([]ctr.Result{{Stdout: "cid123\n"}}, runner.results...)
	c := newTestClient(t, "docker", runner)
	cont, err := c.Run(context.Background(), "img", ctr.RunOptions{Detach: true, Name: "sdcheck-1"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return cont
}

func TestContainerExecuteTrimsTrailingNewline(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{{Stdout: "running\n"}}}
	cont := runContainer(t, runner)

	out, err := cont.Execute(context.Background(), "systemctl", "is-system-running", "--wait")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "running" {
		t.Errorf("Execute() = %q, want trailing newline trimmed", out)
	}
	if got := runner.lastArgs(); got != "exec cid123 systemctl is-system-running --wait" {
		t.Errorf("exec argv = %q", got)
	}
}

func TestContainerExecuteSurfacesCmdError(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{
		{Stdout: "cid123\n"},
		{ExitCode: 1, Stdout: "offline\n", Stderr: ""},
	}}
	c := newTestClient(t, "docker", runner)
	cont, err := c.Run(context.Background(), "img", ctr.RunOptions{Detach: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out, err := cont.Execute(context.Background(), "systemctl", "is-system-running", "--wait")
	cmdErr, ok := ctr.AsCmdError(err)
	if !ok {
		t.Fatalf("Execute() error = %v, want *CmdError", err)
	}
	if cmdErr.Stdout != "offline\n" {
		t.Errorf("CmdError.Stdout = %q, want the command's stdout", cmdErr.Stdout)
	}
	if out != "offline\n" {
		t.Errorf("Execute() output = %q, want stdout returned alongside the error", out)
	}
}

func TestContainerExecuteDetached(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{{}}}
	cont := runContainer(t, runner)

	if err := cont.ExecuteDetached(context.Background(), "sleep", "infinity"); err != nil {
		t.Fatalf("ExecuteDetached() error = %v", err)
	}
	if got := runner.lastArgs(); got != "exec --detach cid123 sleep infinity" {
		t.Errorf("exec argv = %q", got)
	}
}

func TestContainerLogsCombinesStreams(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{{Stdout: "booted services\n", Stderr: "systemd journal\n"}}}
	cont := runContainer(t, runner)

	out, err := cont.Logs(context.Background())
	if err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if !strings.Contains(out, "booted services") || !strings.Contains(out, "systemd journal") {
		t.Errorf("Logs() = %q, want both streams", out)
	}
}

func TestContainerRemoveForce(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{{}}}
	cont := runContainer(t, runner)

	if err := cont.Remove(context.Background(), true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := runner.lastArgs(); got != "rm --force cid123" {
		t.Errorf("rm argv = %q", got)
	}
}

func TestContainerState(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{
		{Stdout: `{"Status":"exited","Running":false,"ExitCode":137}` + "\n"},
	}}
	cont := runContainer(t, runner)

	st, err := cont.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if st.Status != "exited" || st.Running || st.ExitCode != 137 {
		t.Errorf("State() = %+v, want exited with code 137", st)
	}
	if got := runner.lastArgs(); got != "inspect --format {{json .State}} cid123" {
		t.Errorf("inspect argv = %q", got)
	}
}

func TestContainerStateMalformedJSON(t *testing.T) {
	runner := &fakeRunner{results: []ctr.Result{{Stdout: "not-json\n"}}}
	cont := runContainer(t, runner)

	if _, err := cont.State(context.Background()); err == nil {
		t.Fatal("State() error = nil, want parse error")
	}
}

func TestContainerRefFallsBackToName(t *testing.T) {
	// A container created by name only (no detach) is addressed by name.
	runner := &fakeRunner{results: []ctr.Result{
		{Stdout: "output"},
		{},
	}}
	c := newTestClient(t, "docker", runner)
	cont, err := c.Run(context.Background(), "img", ctr.RunOptions{Name: "sdcheck-2"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := cont.Remove(context.Background(), false); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := runner.lastArgs(); got != "rm sdcheck-2" {
		t.Errorf("rm argv = %q", got)
	}
}
