package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
	"github.com/robfig/cron"
	"k8s.io/klog"
)

const (
	ConfigEnvVar   = "TXREPORT_CONFIG"
	EjsonKeyEnvVar = "TXREPORT_EJSON_SECRET_KEY"
	ejsonKeyDir    = "/opt/ejson/keys"
)

var Formats = []string{"table", "json", "line", "sql"}

var config Config
var secrets Secrets

func Defaults() Config {
	c := Config{
		Source: SourceConfig{
			BaseURL:  "http://resttest.bench.co/transactions/",
			Suffix:   ".json",
			MaxPages: 1000,
			Timeout:  "30s",
		},
		Output: OutputConfig{
			Format:      "table",
			Measurement: "transactions",
		},
	}

	c.Output.SQL.TransactionsTable = "transactions"
	c.Output.SQL.DailyTable = "daily_balances"
	c.Output.SQL.CategoriesTable = "category_balances"

	return c
}

func ReadConfig(configEnvVar, configFile, secretsFile string) error {
	_, err := readConfig(configEnvVar, configFile)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}
	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentSourceConfig() *SourceConfig {
	return &config.Source
}

func CurrentReportConfig() *ReportConfig {
	return &config.Report
}

func CurrentOutputConfig() *OutputConfig {
	return &config.Output
}

// TimeoutDuration parses Timeout, zero means no timeout.
func (s SourceConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.Source.BaseURL)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid source base url %q: %v", c.Source.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid source base url %q: scheme must be http or https", c.Source.BaseURL))
	}

	if d, err := c.Source.TimeoutDuration(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid source timeout %q: %v", c.Source.Timeout, err))
	} else if d < 0 {
		problems = append(problems, fmt.Sprintf("invalid source timeout %q: must not be negative", c.Source.Timeout))
	}

	if !stringInSlice(c.Output.Format, Formats) {
		problems = append(problems, fmt.Sprintf("invalid output format %q: must be one of %v", c.Output.Format, Formats))
	}

	if c.UpdateFrequency != "" {
		if _, err := cron.Parse(c.UpdateFrequency); err != nil {
			problems = append(problems, fmt.Sprintf("invalid update frequency %q: %v", c.UpdateFrequency, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func (s *Secrets) Validate() error {
	if s.DatabaseURL == "" {
		return nil
	}

	u, err := url.Parse(s.DatabaseURL)
	if err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("invalid database url: scheme must be postgres or postgresql")
	}

	return nil
}

func readConfig(envName, filename string) (*Config, error) {
	var raw []byte
	var err error

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		klog.Infof("Reading config from environment variable %s", envName)
		raw = []byte(rawEnv)
	} else if filename != "" {
		raw, err = os.ReadFile(filename)
		if errors.Is(err, os.ErrNotExist) {
			klog.V(1).Infof("Config file %s not found, using defaults", filename)
			raw = nil
		} else if err != nil {
			return nil, err
		}
	}

	c, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}

	config = *c

	return &config, nil
}

// parseConfig layers environment variables over the yaml and fills whatever
// is still unset from Defaults.
func parseConfig(raw []byte) (*Config, error) {
	c := Config{}

	if len(raw) > 0 {
		err := yaml.Unmarshal(raw, &c)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	err := env.Parse(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	err = mergo.Merge(&c, Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	return &c, nil
}

func readSecrets(filename string) (*Secrets, error) {
	envSecrets, envErr := readEnvSecrets()

	if filename == "" {
		if envErr != nil {
			return nil, fmt.Errorf("failed to parse env secrets: %w", envErr)
		}
		secrets = *envSecrets
		return &secrets, nil
	}

	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	if ejsonErr == nil && envErr == nil {
		err := mergo.Merge(envSecrets, *ejsonSecrets)
		if err != nil {
			return nil, fmt.Errorf("failed to merge secrets: %w", err)
		}
		secrets = *envSecrets
	} else if ejsonErr != nil && envErr == nil {
		if errors.Is(ejsonErr, os.ErrNotExist) {
			klog.V(1).Infof("Secrets file %s not found, using environment only", filename)
		} else {
			klog.Warningf("Failed to parse ejson secrets: %v", ejsonErr)
		}
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		klog.Warningf("Failed to parse env secrets: %v", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}

	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}

	ejsonKeyFile := os.Getenv(EjsonKeyEnvVar)
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}

	raw, err := ejson.DecryptFile(filename, ejsonKeyDir, strings.TrimSpace(string(ejsonKey)))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}

func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}

	return false
}
