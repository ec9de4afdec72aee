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
	"errors" // Standard Go errors package
	"net/http"
	"strings"

	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	customerrors "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors" // Alias for the custom errors
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error. The trace id set on the
// response by MountDispatcher is echoed in the body.
func HandleError(w http.ResponseWriter, err error) {
	traceID := w.Header().Get(cnxcontext.TraceHeader)
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		body := clientError.ErrorMessage
		body.TraceID = traceID
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(body)
		return
	}

	var serverError *customerrors.ServerError
	logger := log.GetLogger().With(log.String("trace_id", traceID))
	if ok := errors.As(err, &serverError); ok {
		logger.Error(err.Error(), log.String("description", serverError.Description))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(customerrors.ErrorMessage{
			Code:        serverError.Code,
			Message:     serverError.Message,
			Description: "Internal server error",
			TraceID:     traceID,
		})
		return
	}

	logger.Error("Unexpected error while serving request", log.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Internal server error",
	})
}

// WriteErrorResponse writes a client error as is.
func WriteErrorResponse(w http.ResponseWriter, err *customerrors.ClientError) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)

	_ = json.NewEncoder(w).Encode(err.ErrorMessage)
}

// RespondJSON writes body as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, body interface{}, resource string) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Error("Failed to encode response for "+resource, log.Error(err))
	}
}

// DecodeJSONBody decodes the request body into target, rejecting unknown fields.
// A decoding failure is returned as a 400 client error that describes the problem.
func DecodeJSONBody(r *http.Request, target interface{}, resource string) error {

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.BAD_REQUEST.Code,
			Message:     customerrors.BAD_REQUEST.Message,
			Description: HandleDecodeError(err, resource),
		}, http.StatusBadRequest)
	}
	return nil
}

// PathSegments splits a relative path into its non-empty segments.
func PathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// StripBasePath removes apiBasePath from the request path so services can route on the remainder.
func StripBasePath(apiBasePath string, r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, apiBasePath)
	return strings.TrimSuffix(path, "/")
}

// MountDispatcher serves every path under apiBasePath through handlerFunc. The request reaches the
// handler with the base path stripped and a trace id on its context, echoed in the X-Trace-Id header.
func MountDispatcher(mux *http.ServeMux, apiBasePath string, handlerFunc http.HandlerFunc) {
	mux.HandleFunc(apiBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		ctx, traceID := cnxcontext.NewTraceContext(r.Context(), r.Header.Get(cnxcontext.TraceHeader))
		w.Header().Set(cnxcontext.TraceHeader, traceID)

		r = r.WithContext(ctx)
		r.URL.Path = StripBasePath(apiBasePath, r)
		handlerFunc(w, r)
	})
}
