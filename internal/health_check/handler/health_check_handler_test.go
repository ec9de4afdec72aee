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

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/model"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/sink"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/workers"
	"github.com/sr9691/circleblast-nexus-sub000/test/setup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func decodeReport(t *testing.T, recorder *httptest.ResponseRecorder) model.HealthReport {
	var report model.HealthReport
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&report))
	return report
}

func TestHandleHealth(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewHealthHandler().HandleHealth(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"up"}`, recorder.Body.String())
}

func TestHandleReadiness_RequiresNotificationWorker(t *testing.T) {
	setup.SetupSqliteTestDB(t)
	handler := NewHealthHandler()

	recorder := httptest.NewRecorder()
	handler.HandleReadiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	report := decodeReport(t, recorder)
	require.Len(t, report.Components, 2)
	assert.Equal(t, model.StatusUp, report.Components[0].Status)
	assert.Equal(t, "notification_worker", report.Components[1].Name)
	assert.Equal(t, model.StatusDown, report.Components[1].Status)

	workers.StartNotificationWorker(sink.NewLogSink(), 10, 1)
	t.Cleanup(func() {
		_ = workers.StopNotificationWorker(context.Background())
	})

	recorder = httptest.NewRecorder()
	handler.HandleReadiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, decodeReport(t, recorder).IsUp())
}
