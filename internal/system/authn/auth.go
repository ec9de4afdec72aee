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

package authn

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

const memberAudience = "nexus-members"

// IssueMemberToken signs a bearer token identifying memberID.
func IssueMemberToken(memberID string, ttl time.Duration) (string, error) {

	tokens := config.GetRuntime().Config.Tokens
	if tokens.SigningSecret == "" {
		return "", fmt.Errorf("token signing secret is not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   memberID,
		Issuer:    tokens.Issuer,
		Audience:  jwt.ClaimStrings{memberAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tokens.SigningSecret))
}

// ValidateMemberToken verifies the token signature, issuer, audience and expiry and returns the member id.
func ValidateMemberToken(token string) (string, error) {

	logger := log.GetLogger()
	tokens := config.GetRuntime().Config.Tokens
	if tokens.SigningSecret == "" {
		logger.Debug("Member token rejected: signing secret is not configured.")
		return "", unauthorizedError()
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(tokens.SigningSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokens.Issuer),
		jwt.WithAudience(memberAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		logger.Debug("Member token validation failed.", log.Error(err))
		return "", unauthorizedError()
	}
	if strings.TrimSpace(claims.Subject) == "" {
		logger.Debug("Member token does not carry a subject.")
		return "", unauthorizedError()
	}
	return claims.Subject, nil
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
