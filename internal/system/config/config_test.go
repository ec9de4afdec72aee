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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDeployment(t *testing.T, content string) string {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "repository", "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "repository", "conf", "deployment.yaml"), []byte(content), 0o600))
	return home
}

func TestLoadConfig_ExpandsEnvAndFillsDefaults(t *testing.T) {
	t.Setenv("TEST_NEXUS_ADMIN_PASSWORD", "s3cret")
	home := writeDeployment(t, `
addr:
  host: "localhost"
  port: 8900
admin:
  username: "admin"
  password: "${TEST_NEXUS_ADMIN_PASSWORD}"
matching:
  cooldown: 12h
`)

	cfg, err := LoadConfig(home, "/repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8900, cfg.Addr.Port)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, 12*time.Hour, cfg.Matching.Cooldown)
	assert.Equal(t, constants.DefaultWorkerPoolSize, cfg.Matching.WorkerPoolSize)
	assert.Equal(t, constants.DefaultCycleTimeoutSeconds*time.Second, cfg.Matching.CycleTimeout)
	assert.Equal(t, constants.PostgresDBType, cfg.DataSource.Type)
	assert.Equal(t, constants.LogNotifier, cfg.Notification.Type)
	assert.Equal(t, "INFO", cfg.Log.LogLevel)
}

func TestLoadConfig_EnvOverridesWin(t *testing.T) {
	t.Setenv("NEXUS_MATCHING_COOLDOWN", "30m")
	t.Setenv("NEXUS_MATCHING_WORKER_POOL_SIZE", "9")
	t.Setenv("NEXUS_NOTIFICATION_TYPE", "kafka")
	t.Setenv("NEXUS_NOTIFICATION_BROKERS", "k1:9092,k2:9092")
	home := writeDeployment(t, `
matching:
  cooldown: 24h
  worker_pool_size: 2
notification:
  type: log
`)

	cfg, err := LoadConfig(home, "/repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Matching.Cooldown)
	assert.Equal(t, 9, cfg.Matching.WorkerPoolSize)
	assert.Equal(t, "kafka", cfg.Notification.Type)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notification.Brokers)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	t.Setenv("NEXUS_MATCHING_WORKER_POOL_SIZE", "many")
	home := writeDeployment(t, "matching: {}\n")

	_, err := LoadConfig(home, "/repository/conf/deployment.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "/repository/conf/deployment.yaml")
	assert.Error(t, err)
}
