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

package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceContext(t *testing.T) {
	ctx, traceID := NewTraceContext(context.Background(), "  abc-123 ")
	assert.Equal(t, "abc-123", traceID)
	assert.Equal(t, "abc-123", TraceID(ctx))

	ctx, generated := NewTraceContext(context.Background(), "")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, TraceID(ctx))

	assert.Empty(t, TraceID(context.Background()))
}
