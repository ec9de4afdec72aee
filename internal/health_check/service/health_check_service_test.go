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

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sr9691/circleblast-nexus-sub000/internal/health_check/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadiness_AllUp(t *testing.T) {
	report := NewHealthCheckService().
		WithProbe("a", func(context.Context) error { return nil }).
		WithProbe("b", func(context.Context) error { return nil }).
		CheckReadiness(context.Background())

	assert.True(t, report.IsUp())
	require.Len(t, report.Components, 2)
	assert.Equal(t, "a", report.Components[0].Name)
	assert.Equal(t, model.StatusUp, report.Components[1].Status)
}

func TestCheckReadiness_OneDownMarksReportDown(t *testing.T) {
	report := NewHealthCheckService().
		WithProbe("db", func(context.Context) error { return nil }).
		WithProbe("queue", func(context.Context) error { return errors.New("stopped") }).
		CheckReadiness(context.Background())

	assert.False(t, report.IsUp())
	assert.Equal(t, model.StatusUp, report.Components[0].Status)
	assert.Equal(t, model.StatusDown, report.Components[1].Status)
	assert.Equal(t, "stopped", report.Components[1].Error)
}

func TestCheckReadiness_ProbeGetsDeadline(t *testing.T) {
	var hasDeadline bool
	NewHealthCheckService().
		WithProbe("slow", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}).
		CheckReadiness(context.Background())

	assert.True(t, hasDeadline)
}
