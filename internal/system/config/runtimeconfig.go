/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import "sync"

// Runtime holds the runtime configuration for the nexus server.
type Runtime struct {
	NexusHome string `yaml:"nexus_home"`
	Config    Config `yaml:"config"`
}

var (
	runtimeConfig *Runtime
	runtimeMu     sync.RWMutex
	once          sync.Once
)

// InitializeRuntime initializes the runtime configuration. Only the first call has an effect.
func InitializeRuntime(nexusHome string, config *Config) error {

	once.Do(func() {
		runtimeMu.Lock()
		defer runtimeMu.Unlock()
		runtimeConfig = &Runtime{
			NexusHome: nexusHome,
			Config:    *config,
		}
	})

	return nil
}

// GetRuntime returns the runtime configuration.
func GetRuntime() *Runtime {

	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeConfig == nil {
		panic("Runtime is not initialized")
	}
	return runtimeConfig
}

// OverrideRuntime replaces the runtime configuration. Used by tests and the CLI.
func OverrideRuntime(conf Config) {

	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeConfig = &Runtime{
		Config: conf,
	}
}
