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

package cmd

import (
	"fmt"
	"time"

	"github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/model"
	ruleprovider "github.com/sr9691/circleblast-nexus-sub000/internal/matching_rules/provider"
	"github.com/spf13/cobra"
)

var (
	ruleWeight float64
	ruleActive bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and tune matching rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List matching rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := ruleprovider.NewMatchingRuleProvider().GetMatchingRuleService().ListRules(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(rules)
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tKEY\tWEIGHT\tSTATE\tUPDATED")
		for _, rule := range rules {
			fmt.Fprintf(table, "%s\t%s\t%g\t%s\t%s\n", rule.RuleId, rule.RuleKey, rule.Weight,
				activeLabel(rule.IsActive), rule.UpdatedAt.Local().Format(time.DateTime))
		}
		return table.Flush()
	},
}

var rulesSetCmd = &cobra.Command{
	Use:   "set <rule-id>",
	Short: "Change the weight or active flag of a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var update model.MatchingRuleUpdateRequest
		if cmd.Flags().Changed("weight") {
			update.Weight = &ruleWeight
		}
		if cmd.Flags().Changed("active") {
			update.IsActive = &ruleActive
		}
		rule, err := ruleprovider.NewMatchingRuleProvider().GetMatchingRuleService().
			SetRule(cmd.Context(), args[0], update)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(rule)
		}
		printSuccess(fmt.Sprintf("%s: weight %g, %s", rule.RuleKey, rule.Weight, activeLabel(rule.IsActive)))
		return nil
	},
}

func init() {
	rulesSetCmd.Flags().Float64Var(&ruleWeight, "weight", 0, "New weight (>= 0)")
	rulesSetCmd.Flags().BoolVar(&ruleActive, "active", true, "Whether the rule takes part in scoring")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesSetCmd)
}
