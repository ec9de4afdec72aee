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

package security

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/sr9691/circleblast-nexus-sub000/internal/system/authn"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	cnxcontext "github.com/sr9691/circleblast-nexus-sub000/internal/system/context"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	// ActorID is the member id, or constants.SystemActor for the administrator.
	ActorID string
	IsAdmin bool
}

// AuthnWithAdminCredentials performs authentication using admin credentials from the request.
func AuthnWithAdminCredentials(r *http.Request) error {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Basic ") {
		return missingCredentials()
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Basic "))
	if !validateAdminCredentials(token) {
		auditAuthenticationFailure(r, "admin")
		return missingCredentials()
	}
	return nil
}

// AuthnMember authenticates a member bearer token and returns the member id.
func AuthnMember(r *http.Request) (string, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", missingCredentials()
	}
	memberID, err := authn.ValidateMemberToken(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	if err != nil {
		auditAuthenticationFailure(r, "member")
		return "", err
	}
	return memberID, nil
}

// Authenticate accepts either admin Basic credentials or a member bearer token.
func Authenticate(r *http.Request) (Principal, error) {

	authHeader := r.Header.Get("Authorization")
	switch {
	case strings.HasPrefix(authHeader, "Basic "):
		if err := AuthnWithAdminCredentials(r); err != nil {
			return Principal{}, err
		}
		return Principal{ActorID: constants.SystemActor, IsAdmin: true}, nil
	case strings.HasPrefix(authHeader, "Bearer "):
		memberID, err := AuthnMember(r)
		if err != nil {
			return Principal{}, err
		}
		return Principal{ActorID: memberID}, nil
	default:
		return Principal{}, missingCredentials()
	}
}

// AuthorizeMember allows the administrator or the member identified by memberID.
func AuthorizeMember(principal Principal, memberID string) error {

	if principal.IsAdmin || principal.ActorID == memberID {
		return nil
	}
	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.FORBIDDEN.Code,
		Message:     errors.FORBIDDEN.Message,
		Description: errors.FORBIDDEN.Description,
	}, http.StatusForbidden)
}

func validateAdminCredentials(token string) bool {

	admin := config.GetRuntime().Config.Admin
	username := strings.TrimSpace(admin.Username)
	password := strings.TrimSpace(admin.Password)
	if username == "" || password == "" || token == "" {
		return false
	}

	expected := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
		log.GetLogger().Debug("Admin credentials validated successfully.")
		return true
	}
	return false
}

func missingCredentials() error {
	return errors.NewClientError(errors.ErrorMessage{
		Code:        errors.UN_AUTHORIZED.Code,
		Message:     errors.UN_AUTHORIZED.Message,
		Description: "Missing or invalid Authorization header",
	}, http.StatusUnauthorized)
}

func auditAuthenticationFailure(r *http.Request, scheme string) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   r.RemoteAddr,
		InitiatorType: log.InitiatorTypeMember,
		TargetID:      r.URL.Path,
		TargetType:    scheme,
		ActionID:      log.ActionAuthenticationFailure,
		TraceID:       cnxcontext.TraceID(r.Context()),
	})
}
