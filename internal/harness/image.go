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

package harness

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdcheck/sdcheck/internal/consts"
	"github.com/sdcheck/sdcheck/internal/ctr"
	"github.com/sdcheck/sdcheck/internal/errdefs"
	"github.com/sdcheck/sdcheck/internal/util/naming"
)

//go:embed setup_modes/*.sh
var setupModeScripts embed.FS

// SetupModes lists the available custom setup modes, sorted.
func SetupModes() []string {
	entries, err := setupModeScripts.ReadDir("setup_modes")
	if err != nil {
		return nil
	}
	modes := make([]string, 0, len(entries))
	for _, e := range entries {
		modes = append(modes, strings.TrimSuffix(e.Name(), ".sh"))
	}
	sort.Strings(modes)
	return modes
}

// systemd-resolved requires CAP_NET_RAW, which podman does not grant by
// default; masking it avoids needing the extra capability.
var systemdDockerfile = fmt.Sprintf(`FROM %s
RUN apt-get update -y \
    && apt-get install -y systemd \
    && ln -s /lib/systemd/systemd /sbin/init \
    && systemctl mask systemd-resolved.service \
    && systemctl set-default multi-user.target
RUN echo 'root:root' | chpasswd
STOPSIGNAL SIGRTMIN+3
ENTRYPOINT ["/sbin/init"]
`, consts.BaseImage)

const setupModeDockerfile = `FROM %s
COPY init_script.sh /init_script.sh
ENTRYPOINT ["/init_script.sh"]
`

// BuildSystemdImage builds the systemd base image and returns its tag.
func BuildSystemdImage(ctx context.Context, client *ctr.Client) (string, error) {
	return client.Build(ctx, systemdDockerfile, ctr.BuildOptions{
		Tags: []string{consts.SystemdImageTag},
	})
}

// BuildSetupModeImage derives an image from base whose entrypoint is the
// setup mode's init script.
func BuildSetupModeImage(ctx context.Context, client *ctr.Client, base, mode string) (string, error) {
	script, err := setupModeScripts.ReadFile("setup_modes/" + mode + ".sh")
	if err != nil {
		return "", fmt.Errorf("%w: %q", errdefs.ErrUnknownSetupMode, mode)
	}
	buildRoot, err := os.MkdirTemp("", "sdcheck-setup-mode-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(buildRoot)
	if err := os.WriteFile(filepath.Join(buildRoot, "init_script.sh"), script, 0o755); err != nil {
		return "", err
	}
	return client.Build(ctx, fmt.Sprintf(setupModeDockerfile, base), ctr.BuildOptions{
		Tags:      []string{naming.ImageTag(mode)},
		BuildRoot: buildRoot,
	})
}

// Image builds the image for the configured setup mode: the plain systemd
// image by default, a derived init-script image otherwise.
func (cc *CtrCtx) Image(ctx context.Context) (string, error) {
	base, err := BuildSystemdImage(ctx, cc.Client)
	if err != nil {
		return "", err
	}
	if cc.Config.SetupMode == "" {
		return base, nil
	}
	return BuildSetupModeImage(ctx, cc.Client, base, cc.Config.SetupMode)
}
