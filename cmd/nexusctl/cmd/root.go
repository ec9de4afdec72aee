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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	memberstore "github.com/sr9691/circleblast-nexus-sub000/internal/member/store"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/sink"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/managers"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/workers"
	"github.com/spf13/cobra"
)

const (
	configFile     = "/repository/conf/deployment.yaml"
	commandTimeout = 5 * time.Minute
)

var (
	nexusHome string
	logLevel  string
	output    string
)

var rootCmd = &cobra.Command{
	Use:           "nexusctl",
	Short:         "Administer CircleBlast Nexus introductions",
	Long:          "Run introduction cycles, inspect matching rules and maintain the member directory.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupRuntime(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		teardownRuntime()
		return nil
	},
}

func init() {
	defaultHome, _ := os.Getwd()
	rootCmd.PersistentFlags().StringVar(&nexusHome, "home", defaultHome, "Path to the nexus home directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "Log level for the command")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format: table or json")

	rootCmd.AddCommand(cycleCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(tokenCmd)
}

// Execute runs the root command and prints any error.
func Execute() error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return err
	}
	return nil
}

// setupRuntime loads the same configuration the server uses and prepares the datastore.
func setupRuntime(ctx context.Context) error {
	envFiles, err := filepath.Glob(filepath.Join(nexusHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}
	nexusConfig, err := config.LoadConfig(nexusHome, configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", nexusHome, err)
	}
	if err := config.InitializeRuntime(nexusHome, nexusConfig); err != nil {
		return err
	}
	if err := log.Init(logLevel); err != nil {
		return err
	}
	if err := managers.InitializeDatastore(ctx); err != nil {
		return err
	}

	notificationSink, err := sink.NewSinkFromConfig()
	if err != nil {
		return err
	}
	workers.StartNotificationWorker(notificationSink, nexusConfig.Notification.QueueSize,
		nexusConfig.Notification.MaxAttempts)
	return nil
}

func teardownRuntime() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := workers.StopNotificationWorker(ctx); err != nil {
		printWarning(fmt.Sprintf("notifications may not have been delivered: %v", err))
	}
	_ = memberstore.DisconnectMongo(ctx)
	_ = provider.Close()
}
