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
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/config"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/constants"
	"github.com/sr9691/circleblast-nexus-sub000/internal/system/database/client"
	_ "modernc.org/sqlite"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetDBType() string
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

var (
	pool     *sql.DB
	poolType string
	poolErr  error
	poolOnce sync.Once
	poolMu   sync.RWMutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns a client backed by the shared connection pool.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	poolMu.RLock()
	db := pool
	poolMu.RUnlock()
	if db != nil {
		return client.NewDBClient(db), nil
	}

	poolOnce.Do(func() {
		runtimeConfig := config.GetRuntime().Config
		dbConfig := getDBConfig(runtimeConfig.DataSource)

		opened, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
		if err != nil {
			poolErr = fmt.Errorf("failed to connect to database: %v", err)
			return
		}
		if dbConfig.driverName == constants.SqliteDBType {
			// sqlite serializes writers; a single connection avoids SQLITE_BUSY under concurrent writes.
			opened.SetMaxOpenConns(1)
		}
		// Test the database connection.
		if err := opened.Ping(); err != nil {
			_ = opened.Close()
			poolErr = fmt.Errorf("failed to ping database: %v", err)
			return
		}
		poolMu.Lock()
		pool = opened
		poolType = dbConfig.driverName
		poolMu.Unlock()
	})
	if poolErr != nil {
		return nil, poolErr
	}

	poolMu.RLock()
	defer poolMu.RUnlock()
	return client.NewDBClient(pool), nil
}

// GetDBType returns the type of the configured datasource.
func (d *DBProvider) GetDBType() string {

	poolMu.RLock()
	defer poolMu.RUnlock()
	if poolType != "" {
		return poolType
	}
	dataSourceType := config.GetRuntime().Config.DataSource.Type
	if dataSourceType == constants.SqliteDBType {
		return constants.SqliteDBType
	}
	return constants.PostgresDBType
}

// SetTestDB installs an already opened database as the shared pool.
func SetTestDB(db *sql.DB, dbType string) {

	poolMu.Lock()
	defer poolMu.Unlock()
	pool = db
	poolType = dbType
	poolErr = nil
	poolOnce = sync.Once{}
}

// Close closes the shared pool.
func Close() error {

	poolMu.Lock()
	defer poolMu.Unlock()
	if pool == nil {
		return nil
	}
	err := pool.Close()
	pool = nil
	poolType = ""
	poolOnce = sync.Once{}
	return err
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(dataSource config.DataSourceConfig) DBConfig {

	var dbConfig DBConfig

	if dataSource.Type == constants.SqliteDBType {
		dbConfig.driverName = constants.SqliteDBType
		dbConfig.dsn = dataSource.Path
		if dbConfig.dsn == "" {
			dbConfig.dsn = "file:nexus.db?_pragma=busy_timeout(5000)"
		}
		return dbConfig
	}

	dbConfig.driverName = constants.PostgresDBType
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
		dataSource.Name, dataSource.SSLMode)

	return dbConfig
}
