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

package managers

import (
	"net/http"
	"strings"

	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/services"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	healthService := services.NewHealthService()
	for _, probePath := range healthService.Paths() {
		sm.mux.HandleFunc(probePath, healthService.Route)
	}

	matchingRulesService := services.NewMatchingRulesService()
	introductionsService := services.NewIntroductionsService()
	membersService := services.NewMembersService()
	cyclesService := services.NewCyclesService()

	// Single dispatcher for all API services
	utils.MountDispatcher(sm.mux, apiBasePath, func(w http.ResponseWriter, r *http.Request) {
		// Internal path after base path stripping
		path := r.URL.Path

		switch {
		case hasPathPrefix(path, constants.MatchingRulesApiPath):
			matchingRulesService.Route(w, r)
		case hasPathPrefix(path, constants.IntroductionsApiPath):
			introductionsService.Route(w, r)
		case hasPathPrefix(path, constants.MembersApiPath):
			membersService.Route(w, r)
		case hasPathPrefix(path, constants.CyclesApiPath):
			cyclesService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return nil
}

func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
