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

package naming_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/sdcheck/sdcheck/internal/util/naming"
)

func TestContainerName(t *testing.T) {
	name := naming.ContainerName()
	prefix, suffix, ok := strings.Cut(name, "-")
	if !ok || prefix != "sdcheck" {
		t.Fatalf("ContainerName() = %q, want sdcheck-<timestamp>", name)
	}
	if _, err := strconv.ParseInt(suffix, 10, 64); err != nil {
		t.Errorf("ContainerName() suffix %q is not numeric: %v", suffix, err)
	}
}

func TestImageTag(t *testing.T) {
	if got := naming.ImageTag("rebind"); got != "ubuntu-systemd-rebind:20.04" {
		t.Errorf("ImageTag(rebind) = %q", got)
	}
}
