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

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
	// CurrentState carries the persisted status of the resource when a write lost a race,
	// so that callers can resync instead of retrying blindly.
	CurrentState string `json:"current_state,omitempty"`
}

type ClientError struct {
	ErrorMessage
	StatusCode int
}

type ServerError struct {
	ErrorMessage
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// NewConflictError builds a 409 client error that reports the resource's current state.
func NewConflictError(msg ErrorMessage, currentState string) *ClientError {
	msg.CurrentState = currentState
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   http.StatusConflict,
	}
}

// IsClientErrorWithStatus reports whether err is a ClientError carrying the given HTTP status.
func IsClientErrorWithStatus(err error, status int) bool {
	var clientError *ClientError
	if errors.As(err, &clientError) {
		return clientError.StatusCode == status
	}
	return false
}

// IsNotFound reports whether err is a 404 client error.
func IsNotFound(err error) bool {
	return IsClientErrorWithStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 client error.
func IsConflict(err error) bool {
	return IsClientErrorWithStatus(err, http.StatusConflict)
}

// IsInvalidArgument reports whether err is a 400 client error.
func IsInvalidArgument(err error) bool {
	return IsClientErrorWithStatus(err, http.StatusBadRequest)
}
