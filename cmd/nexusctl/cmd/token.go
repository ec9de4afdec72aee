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

	memberprovider "github.com/sr9691/circleblast-nexus-sub000/internal/member/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/authn"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage member bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <member-id>",
	Short: "Issue a bearer token for a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := memberprovider.NewMemberProvider().GetMemberService().GetMember(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !member.IsActive() {
			return fmt.Errorf("member %s is %s", member.MemberId, member.Status)
		}
		token, err := authn.IssueMemberToken(member.MemberId, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.AddCommand(tokenIssueCmd)
}
