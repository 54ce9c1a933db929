/*
Copyright 2026 the PetFriends API Test Authors.

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

package api

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/petfriends-qa/petfriends-api-tests/pkg/fake"
)

type TestConfig struct {
	// BaseURL of the PetFriends service. Empty means the suites run
	// against the in-process fake.
	BaseURL        string
	Email          string
	Password       string
	RequestTimeout time.Duration
	TestTimeout    time.Duration
	DebugLogging   bool
	LogRequests    bool
	LogResponses   bool
}

// UsesFakeService reports whether no remote service has been configured.
func (c *TestConfig) UsesFakeService() bool {
	return c.BaseURL == ""
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:        strings.TrimSpace(os.Getenv("API_BASE_URL")),
		Email:          os.Getenv("PETFRIENDS_EMAIL"),
		Password:       os.Getenv("PETFRIENDS_PASSWORD"),
		RequestTimeout: getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:    getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		DebugLogging:   getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:    getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:   getBoolWithDefault("LOG_RESPONSES", false),
	}

	if config.DebugLogging {
		config.LogRequests = true
		config.LogResponses = true
	}

	if config.UsesFakeService() {
		if config.Email == "" {
			config.Email = fake.DefaultEmail
		}

		if config.Password == "" {
			config.Password = fake.DefaultPassword
		}
	}

	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		".env",          // From the repository root
		"../../.env",    // From test/api
		"../../../.env", // From test/api/suites
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	required := map[string]string{
		"PETFRIENDS_EMAIL":    config.Email,
		"PETFRIENDS_PASSWORD": config.Password,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file", strings.Join(missing, ", "))
	}

	return nil
}
