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

package provider

import (
	"github.com/sr9691/circleblast-nexus-sub000/internal/cycle/service"
)

// CycleProviderInterface defines the interface for the cycle provider.
type CycleProviderInterface interface {
	GetCycleService() service.CycleServiceInterface
}

// CycleProvider is the default implementation of the CycleProviderInterface.
type CycleProvider struct{}

// NewCycleProvider creates a new instance of CycleProvider.
func NewCycleProvider() CycleProviderInterface {

	return &CycleProvider{}
}

// GetCycleService returns the cycle service instance.
func (p *CycleProvider) GetCycleService() service.CycleServiceInterface {

	return service.GetCycleService()
}
