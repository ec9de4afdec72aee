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

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment file, expands environment references, applies NEXUS_* overrides
// and fills defaults.
func LoadConfig(nexusHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(nexusHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyEnvOverrides overlays NEXUS_MATCHING_* and NEXUS_NOTIFICATION_* variables on cfg.
func ApplyEnvOverrides(cfg *Config) error {

	if err := envconfig.Process("NEXUS_MATCHING", &cfg.Matching); err != nil {
		return fmt.Errorf("invalid matching override: %w", err)
	}
	if err := envconfig.Process("NEXUS_NOTIFICATION", &cfg.Notification); err != nil {
		return fmt.Errorf("invalid notification override: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero values with the built-in defaults.
func ApplyDefaults(cfg *Config) {

	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.DataSource.Type == "" {
		cfg.DataSource.Type = constants.PostgresDBType
	}
	if cfg.MemberDirectory.Type == "" {
		cfg.MemberDirectory.Type = constants.SqlMemberDirectory
	}
	if cfg.MemberDirectory.CacheTTL <= 0 {
		cfg.MemberDirectory.CacheTTL = time.Minute
	}
	if cfg.Tokens.Issuer == "" {
		cfg.Tokens.Issuer = "circleblast-nexus"
	}
	if cfg.Tokens.LinkTTL <= 0 {
		cfg.Tokens.LinkTTL = 7 * 24 * time.Hour
	}

	m := &cfg.Matching
	if m.Cooldown <= 0 {
		m.Cooldown = constants.DefaultCooldownHours * time.Hour
	}
	if m.WorkerPoolSize <= 0 {
		m.WorkerPoolSize = constants.DefaultWorkerPoolSize
	}
	if m.CycleTimeout <= 0 {
		m.CycleTimeout = constants.DefaultCycleTimeoutSeconds * time.Second
	}
	if m.NewMemberWindow <= 0 {
		m.NewMemberWindow = constants.DefaultNewMemberWindowDays * 24 * time.Hour
	}
	if m.RecencyWindow <= 0 {
		m.RecencyWindow = constants.DefaultRecencyWindowDays * 24 * time.Hour
	}

	n := &cfg.Notification
	if n.Type == "" {
		n.Type = constants.LogNotifier
	}
	if n.QueueSize <= 0 {
		n.QueueSize = 1000
	}
	if n.MaxAttempts <= 0 {
		n.MaxAttempts = 3
	}
}
