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

package links

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	errors2 "github.com/sr9691/circleblast-nexus-sub000/internal/system/errors"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

const actionAudience = "nexus-actions"

// ActionClaims authorize one member to accept or decline one introduction.
type ActionClaims struct {
	IntroductionId string `json:"iid"`
	Action         string `json:"act"`
	jwt.RegisteredClaims
}

// MemberId is the member the link was issued to.
func (c *ActionClaims) MemberId() string {
	return c.Subject
}

// Signer issues and verifies one-click action tokens.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret, issuer string, ttl time.Duration, now func() time.Time) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: now}
}

// NewSignerFromConfig builds a signer from the tokens section of the runtime config.
func NewSignerFromConfig() *Signer {
	tokens := config.GetRuntime().Config.Tokens
	return NewSigner(tokens.SigningSecret, tokens.Issuer, tokens.LinkTTL, time.Now)
}

// Enabled reports whether a signing secret is configured.
func (s *Signer) Enabled() bool {
	return len(s.secret) > 0
}

// Sign issues a token letting memberId run action on introductionId.
func (s *Signer) Sign(introductionId, memberId, action string) (string, error) {

	if !s.Enabled() {
		return "", fmt.Errorf("token signing secret is not configured")
	}
	now := s.now()
	claims := ActionClaims{
		IntroductionId: introductionId,
		Action:         action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberId,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{actionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, issuer, audience, expiry and action and returns the claims.
func (s *Signer) Verify(token string) (*ActionClaims, error) {

	logger := log.GetLogger()
	if !s.Enabled() || strings.TrimSpace(token) == "" {
		return nil, invalidToken()
	}
	claims := &ActionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(actionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		logger.Debug("Action token validation failed.", log.Error(err))
		return nil, invalidToken()
	}
	if claims.IntroductionId == "" || claims.Subject == "" {
		return nil, invalidToken()
	}
	if claims.Action != constants.ActionAccept && claims.Action != constants.ActionDecline {
		logger.Debug("Action token carries an unsupported action.", log.String("action", claims.Action))
		return nil, invalidToken()
	}
	return claims, nil
}

// BuildActionLinks returns signed accept and decline URLs for memberId under baseURL.
func (s *Signer) BuildActionLinks(baseURL, introductionId, memberId string) (map[string]string, error) {

	links := make(map[string]string, 2)
	for _, action := range []string{constants.ActionAccept, constants.ActionDecline} {
		token, err := s.Sign(introductionId, memberId, action)
		if err != nil {
			return nil, err
		}
		links[action] = fmt.Sprintf("%s%s%s/actions?token=%s", strings.TrimSuffix(baseURL, "/"),
			constants.ApiBasePath, constants.IntroductionsApiPath, url.QueryEscape(token))
	}
	return links, nil
}

func invalidToken() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_ACTION_TOKEN.Code,
		Message:     errors2.INVALID_ACTION_TOKEN.Message,
		Description: errors2.INVALID_ACTION_TOKEN.Description,
	}, http.StatusUnauthorized)
}
