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
	"strings"

	"github.com/google/uuid"
)

// TraceHeader carries the trace id on API requests and responses.
const TraceHeader = "X-Trace-Id"

type traceKey struct{}

// NewTraceContext attaches traceID to ctx, generating one when traceID is blank.
func NewTraceContext(ctx context.Context, traceID string) (context.Context, string) {
	traceID = strings.TrimSpace(traceID)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	return context.WithValue(ctx, traceKey{}, traceID), traceID
}

// TraceID returns the trace id on ctx, or an empty string outside a request or cycle.
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
