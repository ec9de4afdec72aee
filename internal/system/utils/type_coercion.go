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

package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Column values come back from database/sql as driver dependent types: postgres returns
// booleans as bool and BIGINT as int64, sqlite returns both as int64, and text columns may
// arrive as []byte. The helpers below normalize a scanned value to the Go type the models use.

// AsString converts a scanned column value to string. nil becomes "".
func AsString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsInt64 converts a scanned column value to int64. Unparseable values become 0.
func AsInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// AsFloat64 converts a scanned column value to float64. Unparseable values become 0.
func AsFloat64(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// AsBool converts a scanned column value to bool.
func AsBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		b, _ := strconv.ParseBool(string(v))
		return b
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// AsTime converts a unix-millisecond column value to a UTC time. nil becomes the zero time.
func AsTime(value interface{}) time.Time {
	if value == nil {
		return time.Time{}
	}
	return time.UnixMilli(AsInt64(value)).UTC()
}

// AsTimePtr is AsTime for nullable columns.
func AsTimePtr(value interface{}) *time.Time {
	if value == nil {
		return nil
	}
	t := AsTime(value)
	return &t
}

// AsStringSlice decodes a JSON array column. Malformed or empty values become an empty slice.
func AsStringSlice(value interface{}) []string {
	raw := AsString(value)
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// ToMillis converts t to unix milliseconds, or nil for the zero time.
func ToMillis(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

// ToMillisPtr converts a nullable time to unix milliseconds.
func ToMillisPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return ToMillis(*t)
}

// ToJSONArray encodes values as a JSON array column value.
func ToJSONArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
