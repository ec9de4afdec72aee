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

	introductionhandler "github.com/sr9691/circleblast-nexus-sub000/internal/introduction/handler"
	memberhandler "github.com/sr9691/circleblast-nexus-sub000/internal/member/handler"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type MembersService struct {
	memberHandler       *memberhandler.MemberHandler
	introductionHandler *introductionhandler.IntroductionHandler
}

func NewMembersService() *MembersService {
	return &MembersService{
		memberHandler:       memberhandler.NewMemberHandler(),
		introductionHandler: introductionhandler.NewIntroductionHandler(),
	}
}

// Route handles member directory writes and per-member introduction listings.
func (s *MembersService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method
	segments := utils.PathSegments(strings.TrimPrefix(path, constants.MembersApiPath))

	switch {
	case method == http.MethodGet && len(segments) == 1:
		s.memberHandler.GetMember(w, r, segments[0])

	case method == http.MethodPut && len(segments) == 1:
		s.memberHandler.PutMember(w, r, segments[0])

	case method == http.MethodGet && len(segments) == 2 && segments[1] == "introductions":
		s.introductionHandler.ListMemberIntroductions(w, r, segments[0])

	default:
		http.NotFound(w, r)
	}
}
