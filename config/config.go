/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5400"

	// Single-attempt delivery on a fixed poll interval is the product
	// behavior; these are the defaults, not hardcoded worker constants.
	DEFAULT_POLL_INTERVAL_SEC = 3
	DEFAULT_CLAIM_BATCH_SIZE  = 25

	DEFAULT_RATE_LIMIT_CLEANUP_SEC = 10800
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"SITEFIX_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"SITEFIX_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"SITEFIX_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"SITEFIX_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"SITEFIX_REDIS_DNS"`
}

type WorkerConfig struct {
	PollIntervalSec int  `json:"poll_interval_sec" envconfig:"SITEFIX_WORKER_POLL_INTERVAL_SEC"`
	ClaimBatchSize  int  `json:"claim_batch_size" envconfig:"SITEFIX_WORKER_CLAIM_BATCH_SIZE"`
	TickLock        bool `json:"tick_lock" envconfig:"SITEFIX_WORKER_TICK_LOCK"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"SITEFIX_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"SITEFIX_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"SITEFIX_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type TwilioConfig struct {
	AccountSid string `json:"account_sid" envconfig:"SITEFIX_TWILIO_ACCOUNT_SID"`
	AuthToken  string `json:"auth_token" envconfig:"SITEFIX_TWILIO_AUTH_TOKEN"`
	FromNumber string `json:"from_number" envconfig:"SITEFIX_TWILIO_FROM_NUMBER"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"SITEFIX_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"SITEFIX_PROJECT_NAME"`
	AppBaseUrl   string           `json:"app_base_url" envconfig:"SITEFIX_APP_BASE_URL"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Worker       WorkerConfig     `json:"worker"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Twilio       TwilioConfig     `json:"twilio"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("sitefix", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called sitefix.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Sitefix Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Worker.TickLock && cnf.Redis.Dns == "" {
		log.Println("Error: Worker tick lock enabled without a Redis DNS.")
		return errors.New("redis DNS is required when the worker tick lock is enabled")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.AppBaseUrl = strings.TrimSpace(cnf.AppBaseUrl)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Worker.PollIntervalSec <= 0 {
		cnf.Worker.PollIntervalSec = DEFAULT_POLL_INTERVAL_SEC
	}
	if cnf.Worker.ClaimBatchSize <= 0 {
		cnf.Worker.ClaimBatchSize = DEFAULT_CLAIM_BATCH_SIZE
	}

	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := DEFAULT_RATE_LIMIT_CLEANUP_SEC
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
