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

package naming

import (
	"fmt"
	"time"

	"github.com/sdcheck/sdcheck/internal/consts"
)

// ContainerName generates a unique container name. Parallel runs get
// distinct names through the millisecond timestamp, so containers never
// collide across invocations.
func ContainerName() string {
	return fmt.Sprintf("%s-%d", consts.ContainerNamePrefix, time.Now().UnixMilli())
}

// ImageTag builds the tag for a setup-mode derived image.
// Format: ubuntu-systemd-{mode}:20.04, matching the base image versioning.
func ImageTag(mode string) string {
	return fmt.Sprintf("ubuntu-systemd-%s:20.04", mode)
}
