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

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		logger = nil
		mu.Unlock()
	})
}

func TestInitWithOptions_JSONCarriesFields(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer
	require.NoError(t, InitWithOptions(Options{Level: "debug", Format: FormatJSON, Writer: &out}))

	GetLogger().Debug("scored", String("member", "m1"), Int("pairs", 3), Error(errors.New("boom")))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "scored", line["msg"])
	assert.Equal(t, "m1", line["member"])
	assert.Equal(t, float64(3), line["pairs"])
	assert.Equal(t, "boom", line["error"])
}

func TestInitWithOptions_LevelFilters(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer
	require.NoError(t, InitWithOptions(Options{Level: "ERROR", Writer: &out}))

	GetLogger().Info("hidden")
	GetLogger().Error("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestInitWithOptions_Rejects(t *testing.T) {
	restoreLogger(t)
	assert.Error(t, InitWithOptions(Options{Level: "LOUD"}))
	assert.Error(t, InitWithOptions(Options{Format: "xml"}))
}

func TestForContext_AddsTraceID(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer
	require.NoError(t, InitWithOptions(Options{Writer: &out}))

	ctx, _ := cnxcontext.NewTraceContext(context.Background(), "trace-42")
	ForContext(ctx).Info("cycle started")
	ForContext(context.Background()).Info("no trace")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "trace_id=trace-42")
	assert.NotContains(t, lines[1], "trace_id")
}

func TestAudit_WritesJSONEvent(t *testing.T) {
	restoreLogger(t)
	var out bytes.Buffer
	require.NoError(t, InitWithOptions(Options{Format: FormatJSON, Writer: &out}))

	GetLogger().Audit(AuditEvent{
		InitiatorID:   "m1",
		InitiatorType: InitiatorTypeMember,
		TargetID:      "i1",
		TargetType:    TargetTypeIntroduction,
		ActionID:      ActionAcceptIntroduction,
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	var event AuditEvent
	require.NoError(t, json.Unmarshal([]byte(line["audit_event"].(string)), &event))
	assert.Equal(t, ActionAcceptIntroduction, event.ActionID)
	assert.NotEmpty(t, event.RecordedAt)
}
