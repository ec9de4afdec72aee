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

	"github.com/fatih/color"
	cycleprovider "github.com/sr9691/circleblast-nexus-sub000/internal/cycle/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/spf13/cobra"
)

var (
	forceCycle  bool
	dryRunLimit int
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run and inspect introduction cycles",
}

var cycleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an introduction cycle now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := cycleprovider.NewCycleProvider().GetCycleService().RunCycle(cmd.Context(), forceCycle)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(result)
		}
		if result.Skipped {
			printWarning(fmt.Sprintf("cycle skipped: %s", result.Reason))
			return nil
		}
		printSuccess(fmt.Sprintf("cycle created %d suggestion(s)", result.Generated))
		return nil
	},
}

var cycleDryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Preview the suggestions the next cycle would make",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dryRunLimit <= 0 || dryRunLimit > constants.MaxDryRunLimit {
			return fmt.Errorf("limit must be between 1 and %d", constants.MaxDryRunLimit)
		}
		preview, err := cycleprovider.NewCycleProvider().GetCycleService().DryRun(cmd.Context(), dryRunLimit)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(preview)
		}
		fmt.Printf("%d active member(s), %d suggestion(s)\n", preview.Members, len(preview.Candidates))
		table := newTable()
		fmt.Fprintln(table, "MEMBER\tMEMBER\tSCORE")
		for _, candidate := range preview.Candidates {
			fmt.Fprintf(table, "%s\t%s\t%.3f\n", candidate.MemberLowId, candidate.MemberHighId, candidate.Score)
		}
		return table.Flush()
	},
}

var cycleStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counters over all auto-generated introductions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := cycleprovider.NewCycleProvider().GetCycleService().GetCycleStats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(stats)
		}
		table := newTable()
		fmt.Fprintf(table, "generated\t%d\n", stats.GeneratedTotal)
		fmt.Fprintf(table, "pending\t%s\n", color.YellowString("%d", stats.PendingTotal))
		fmt.Fprintf(table, "accepted\t%s\n", color.GreenString("%d", stats.AcceptedTotal))
		fmt.Fprintf(table, "declined\t%s\n", color.RedString("%d", stats.DeclinedTotal))
		fmt.Fprintf(table, "last run\t%s\n", formatLastRun(stats.LastRunAt))
		return table.Flush()
	},
}

var cycleLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show when the last cycle ran",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		last, err := cycleprovider.NewCycleProvider().GetCycleService().GetLastCycle(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(last)
		}
		fmt.Println(formatLastRun(last.LastRunAt))
		return nil
	},
}

func init() {
	cycleRunCmd.Flags().BoolVar(&forceCycle, "force", true, "Ignore the cooldown")
	cycleDryRunCmd.Flags().IntVar(&dryRunLimit, "limit", constants.DefaultDryRunLimit, "Maximum suggestions to show")

	cycleCmd.AddCommand(cycleRunCmd)
	cycleCmd.AddCommand(cycleDryRunCmd)
	cycleCmd.AddCommand(cycleStatsCmd)
	cycleCmd.AddCommand(cycleLastCmd)
}

func formatLastRun(lastRunAt *time.Time) string {
	if lastRunAt == nil {
		return color.HiBlackString("never")
	}
	return lastRunAt.Local().Format(time.RFC1123)
}
