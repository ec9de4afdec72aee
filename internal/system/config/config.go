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

package config

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TokensConfig configures member bearer tokens and one-click action links.
type TokensConfig struct {
	SigningSecret string        `yaml:"signing_secret"`
	Issuer        string        `yaml:"issuer"`
	LinkTTL       time.Duration `yaml:"link_ttl"`
}

type DataSourceConfig struct {
	Type     string `yaml:"type"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the database file for the sqlite datasource.
	Path string `yaml:"path"`
}

type MemberDirectoryConfig struct {
	Type            string        `yaml:"type"`
	MongoURI        string        `yaml:"mongo_uri"`
	MongoDatabase   string        `yaml:"mongo_database"`
	MongoCollection string        `yaml:"mongo_collection"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
}

// MatchingConfig holds the cycle settings. Every field can be overridden with a NEXUS_MATCHING_* variable.
type MatchingConfig struct {
	Cooldown        time.Duration `yaml:"cooldown" envconfig:"COOLDOWN"`
	WorkerPoolSize  int           `yaml:"worker_pool_size" envconfig:"WORKER_POOL_SIZE"`
	CycleTimeout    time.Duration `yaml:"cycle_timeout" envconfig:"CYCLE_TIMEOUT"`
	TickInterval    time.Duration `yaml:"tick_interval" envconfig:"TICK_INTERVAL"`
	NewMemberWindow time.Duration `yaml:"new_member_window" envconfig:"NEW_MEMBER_WINDOW"`
	RecencyWindow   time.Duration `yaml:"recency_window" envconfig:"RECENCY_WINDOW"`
}

type NotificationConfig struct {
	Type          string   `yaml:"type" envconfig:"TYPE"`
	Brokers       []string `yaml:"brokers" envconfig:"BROKERS"`
	Topic         string   `yaml:"topic" envconfig:"TOPIC"`
	QueueSize     int      `yaml:"queue_size" envconfig:"QUEUE_SIZE"`
	MaxAttempts   int      `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	PublicBaseURL string   `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
}

type Config struct {
	Addr            AddrConfig            `yaml:"addr"`
	Log             LogConfig             `yaml:"log"`
	Auth            AuthConfig            `yaml:"auth"`
	Admin           AdminConfig           `yaml:"admin"`
	Tokens          TokensConfig          `yaml:"tokens"`
	DataSource      DataSourceConfig      `yaml:"datasource"`
	MemberDirectory MemberDirectoryConfig `yaml:"member_directory"`
	Matching        MatchingConfig        `yaml:"matching"`
	Notification    NotificationConfig    `yaml:"notification"`
}
