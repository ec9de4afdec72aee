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

//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/sink"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/managers"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/workers"
	"github.com/sr9691/circleblast-nexus-sub000/test/setup"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass"
)

var server *httptest.Server

func TestMain(m *testing.M) {
	ctx := context.Background()

	conf := config.Config{
		Log:    config.LogConfig{LogLevel: "DEBUG"},
		Admin:  config.AdminConfig{Username: adminUsername, Password: adminPassword},
		Tokens: config.TokensConfig{SigningSecret: "integration-signing-secret", LinkTTL: time.Hour},
		DataSource: config.DataSourceConfig{
			Type: constants.PostgresDBType,
		},
		MemberDirectory: config.MemberDirectoryConfig{Type: constants.SqlMemberDirectory},
		Matching:        config.MatchingConfig{WorkerPoolSize: 4, CycleTimeout: time.Minute},
		Notification:    config.NotificationConfig{PublicBaseURL: "http://localhost/api/v1"},
	}
	config.ApplyDefaults(&conf)
	config.OverrideRuntime(conf)
	_ = log.Init("DEBUG")

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	provider.SetTestDB(pg.DB, constants.PostgresDBType)

	if err := managers.InitializeDatastore(ctx); err != nil {
		fmt.Println("Failed to initialize datastore:", err)
		_ = pg.Container.Terminate(ctx)
		os.Exit(1)
	}
	workers.StartNotificationWorker(sink.NewLogSink(), 100, 1)

	mux := http.NewServeMux()
	if err := managers.NewServiceManager(mux).RegisterServices(constants.ApiBasePath); err != nil {
		fmt.Println("Failed to register services:", err)
		_ = pg.Container.Terminate(ctx)
		os.Exit(1)
	}
	server = httptest.NewServer(mux)

	code := m.Run()

	server.Close()
	_ = workers.StopNotificationWorker(ctx)
	_ = pg.DB.Close()
	_ = pg.Container.Terminate(ctx)

	os.Exit(code)
}
