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

package services

import (
	"net/http"
	"strings"

	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/handler"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type IntroductionsService struct {
	introductionHandler *handler.IntroductionHandler
}

func NewIntroductionsService() *IntroductionsService {
	return &IntroductionsService{
		introductionHandler: handler.NewIntroductionHandler(),
	}
}

// Route handles the introduction lifecycle endpoints.
func (s *IntroductionsService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	segments := utils.PathSegments(strings.TrimPrefix(path, constants.IntroductionsApiPath))

	switch {
	case method == http.MethodPost && len(segments) == 0:
		s.introductionHandler.CreateIntroduction(w, r)

	case method == http.MethodGet && len(segments) == 1 && segments[0] == "actions":
		s.introductionHandler.RedeemActionLink(w, r)

	case method == http.MethodGet && len(segments) == 1:
		s.introductionHandler.GetIntroduction(w, r, segments[0])

	case method == http.MethodGet && len(segments) == 2 && segments[1] == "notes":
		s.introductionHandler.GetNotes(w, r, segments[0])

	case method == http.MethodPost && len(segments) == 2:
		s.routeAction(w, r, segments[0], segments[1])

	default:
		http.NotFound(w, r)
	}
}

func (s *IntroductionsService) routeAction(w http.ResponseWriter, r *http.Request, introductionId, action string) {

	switch action {
	case "accept":
		s.introductionHandler.Accept(w, r, introductionId)
	case "decline":
		s.introductionHandler.Decline(w, r, introductionId)
	case "schedule":
		s.introductionHandler.Schedule(w, r, introductionId)
	case "complete":
		s.introductionHandler.Complete(w, r, introductionId)
	case "cancel":
		s.introductionHandler.Cancel(w, r, introductionId)
	case "notes":
		s.introductionHandler.RecordNotes(w, r, introductionId)
	default:
		http.NotFound(w, r)
	}
}
