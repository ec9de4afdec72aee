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
	"os"

	"github.com/sr9691/circleblast-nexus-sub000/internal/member/model"
	memberprovider "github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// memberFile is the YAML layout accepted by members import.
type memberFile struct {
	Members []model.Member `yaml:"members"`
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Maintain the member directory",
}

var membersImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Create or replace members from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := readMemberFile(args[0])
		if err != nil {
			return err
		}
		memberService := memberprovider.NewMemberProvider().GetMemberService()
		for i, member := range members {
			if err := memberService.UpsertMember(cmd.Context(), member); err != nil {
				return fmt.Errorf("member %d (%s): %w", i+1, member.MemberId, err)
			}
		}
		printSuccess(fmt.Sprintf("imported %d member(s)", len(members)))
		return nil
	},
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := memberprovider.NewMemberProvider().GetMemberService().ListActiveMembers(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(members)
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tNAME\tJOINED\tEXPERTISE")
		for _, member := range members {
			fmt.Fprintf(table, "%s\t%s\t%s\t%v\n", member.MemberId, member.Name,
				member.JoinDate.Format("2006-01-02"), member.Expertise)
		}
		return table.Flush()
	},
}

func init() {
	membersCmd.AddCommand(membersImportCmd)
	membersCmd.AddCommand(membersListCmd)
}

func readMemberFile(path string) ([]model.Member, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file memberFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid member file %s: %w", path, err)
	}
	return file.Members, nil
}
