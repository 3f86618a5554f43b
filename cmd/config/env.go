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

package config

import (
	"os"

	"github.com/spf13/viper"
)

// Version is the sdcheck release version.
const Version = "0.1.0"

type Var struct {
	Key        string // e.g. "SDCHECK_CONTAINER_EXE"
	ViperKey   string // optional, e.g. "sdcheck/containerExe"
	CobraKey   string // optional, e.g. "container-exe"
	Default    string // optional
	HasDefault bool
}

func DefineKV(envName, viperKey string, defaultVal ...string) Var {
	v := Var{Key: envName, ViperKey: viperKey}
	if len(defaultVal) > 0 {
		v.Default = defaultVal[0]
		v.HasDefault = true
	}
	return v
}

func Define(envName string, defaultVal ...string) Var {
	return DefineKV(envName, "", defaultVal...)
}

func (v *Var) EnvKey() string               { return v.Key }
func (v *Var) DefaultValue() (string, bool) { return v.Default, v.HasDefault }

// ValueOrDefault defines precedence: viper (if ViperKey set and value present) → OS env → default → "".
func (v *Var) ValueOrDefault() string {
	if v.ViperKey != "" && viper.IsSet(v.ViperKey) {
		return viper.GetString(v.ViperKey)
	}
	if val, ok := os.LookupEnv(v.Key); ok {
		return val
	}
	if v.HasDefault {
		return v.Default
	}
	return ""
}

// BindEnv is safe if ViperKey is empty: does nothing.
func (v *Var) BindEnv() error {
	if v.ViperKey == "" {
		return nil
	}
	return viper.BindEnv(v.ViperKey, v.Key)
}

func (v *Var) Set(value string) error {
	return os.Setenv(v.Key, value)
}

func (v *Var) SetDefault(val string) {
	v.Default = val
	v.HasDefault = true
	if v.ViperKey != "" {
		viper.SetDefault(v.ViperKey, val)
	}
}

var (
	SDCHECK_ROOT_CONFIG_FILE    = DefineKV("SDCHECK_CONFIG", "sdcheck/configFile")
	SDCHECK_ROOT_VERBOSE        = DefineKV("SDCHECK_VERBOSE", "sdcheck/verbose")
	SDCHECK_ROOT_LOG_LEVEL      = DefineKV("SDCHECK_LOG_LEVEL", "sdcheck/logLevel")
	SDCHECK_ROOT_CONTAINER_EXE  = DefineKV("SDCHECK_CONTAINER_EXE", "sdcheck/containerExe", "docker")
	SDCHECK_ROOT_CONTAINER_HOST = DefineKV("SDCHECK_CONTAINER_HOST", "sdcheck/containerHost")
)
