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
	"context"
	"fmt"

	ruleprovider "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/scoring"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/scripts"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
)

// InitializeDatastore creates the schema, seeds the default matching rules into an empty registry
// and checks that every stored rule is bound to a scoring signal.
func InitializeDatastore(ctx context.Context) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to open the datasource: %w", err)
	}
	defer dbClient.Close()

	if err := dbClient.InitSchema(scripts.Schema); err != nil {
		return fmt.Errorf("failed to initialize the schema: %w", err)
	}

	ruleService := ruleprovider.NewMatchingRuleProvider().GetMatchingRuleService()
	seeded, err := ruleService.SeedDefaultRules(ctx)
	if err != nil {
		return err
	}
	if seeded > 0 {
		log.GetLogger().Info("Seeded default matching rules", log.Int("count", seeded))
	}
	return ruleService.ValidateRules(ctx, scoring.NewRegistry())
}
