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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cycleprovider "github.com/sr9691/circleblast-nexus-sub000/internal/cycle/provider"
	memberstore "github.com/sr9691/circleblast-nexus-sub000/internal/member/store"
	"github.com/sr9691/circleblast-nexus-sub000/internal/notification/sink"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/provider"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/log"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/managers"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/schedulers"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/workers"
)

const shutdownTimeout = 15 * time.Second

func main() {
	nexusHome := getNexusHome()
	const configFile = "/repository/conf/deployment.yaml"

	envFiles, err := filepath.Glob(filepath.Join(nexusHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	nexusConfig, err := config.LoadConfig(nexusHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load nexus config: %v", err)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(nexusHome, nexusConfig); err != nil {
		stdlog.Fatalf("Failed to initialize nexus runtime: %v", err)
	}

	// Initialize logger
	if err := log.InitWithOptions(log.Options{Level: nexusConfig.Log.LogLevel, Format: nexusConfig.Log.Format}); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := managers.InitializeDatastore(ctx); err != nil {
		logger.Fatal("Failed to initialize the datastore", log.Error(err))
	}

	// Initialize notification queue
	notificationSink, err := sink.NewSinkFromConfig()
	if err != nil {
		logger.Fatal("Failed to initialize the notification sink", log.Error(err))
	}
	workers.StartNotificationWorker(notificationSink, nexusConfig.Notification.QueueSize,
		nexusConfig.Notification.MaxAttempts)

	if interval := nexusConfig.Matching.TickInterval; interval > 0 {
		go schedulers.StartCycleScheduler(ctx, cycleprovider.NewCycleProvider().GetCycleService(), interval)
	}

	serverAddr := fmt.Sprintf("%s:%d", nexusConfig.Addr.Host, nexusConfig.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           enableCORS(initMultiplexer(), nexusConfig.Auth.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down the HTTP server", log.Error(err))
		}
	}()

	logger.Info("CircleBlast Nexus started", log.String("address", serverAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to serve requests", log.Error(err))
	}

	shutdown(logger)
	logger.Info("CircleBlast Nexus stopped")
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func shutdown(logger *log.Logger) {

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := workers.StopNotificationWorker(ctx); err != nil {
		logger.Error("Failed to drain the notification queue", log.Error(err))
	}
	if err := memberstore.DisconnectMongo(ctx); err != nil {
		logger.Error("Failed to disconnect the member directory", log.Error(err))
	}
	if err := provider.Close(); err != nil {
		logger.Error("Failed to close the datasource", log.Error(err))
	}
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := allowedOrigin(r.Header.Get("Origin"), allowedOrigins); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Trace-Id")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Trace-Id")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin. An empty list allows any origin.
func allowedOrigin(origin string, allowedOrigins []string) string {
	if origin == "" {
		return ""
	}
	if len(allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		if allowed == origin || allowed == "*" {
			return origin
		}
	}
	return ""
}

func getNexusHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("nexusHome", "", "Path to the nexus home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
