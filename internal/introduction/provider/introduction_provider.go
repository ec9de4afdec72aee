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
	"github.com/sr9691/circleblast-nexus-sub000/internal/introduction/service"
)

// IntroductionProviderInterface defines the interface for the introduction provider.
type IntroductionProviderInterface interface {
	GetIntroductionService() service.IntroductionServiceInterface
}

// IntroductionProvider is the default implementation of the IntroductionProviderInterface.
type IntroductionProvider struct{}

// NewIntroductionProvider creates a new instance of IntroductionProvider.
func NewIntroductionProvider() IntroductionProviderInterface {

	return &IntroductionProvider{}
}

// GetIntroductionService returns the introduction lifecycle service instance.
func (p *IntroductionProvider) GetIntroductionService() service.IntroductionServiceInterface {

	return service.GetIntroductionService()
}
