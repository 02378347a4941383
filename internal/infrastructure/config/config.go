package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"

	pkgkafka "github.com/bibbank/fraud-detection/pkg/kafka"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "FRAUD_CONFIG_FILE"

// Config holds all configuration for the fraud-detection binaries.
type Config struct {
	HTTPPort    string `mapstructure:"port"`
	GRPCPort    string `mapstructure:"grpc_port"`
	ModelPath   string `mapstructure:"model_path"`
	ScalerPath  string `mapstructure:"scaler_path"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`

	KafkaBrokers       string `mapstructure:"kafka_brokers"`
	KafkaTopic         string `mapstructure:"kafka_topic"`
	KafkaTLS           bool   `mapstructure:"kafka_tls"`
	KafkaSASLMechanism string `mapstructure:"kafka_sasl_mechanism"`
	KafkaSASLUsername  string `mapstructure:"kafka_sasl_username"`
	KafkaSASLPassword  string `mapstructure:"kafka_sasl_password"`

	OTLPEndpoint    string `mapstructure:"otel_exporter_otlp_endpoint"`
	GRPCReflection  bool   `mapstructure:"grpc_reflection"`
	GRPCTLSCertFile string `mapstructure:"grpc_tls_cert_file"`
	GRPCTLSKeyFile  string `mapstructure:"grpc_tls_key_file"`

	// RateLimit caps /predict requests per second; 0 disables the limiter.
	RateLimit int `mapstructure:"rate_limit"`
}

var defaults = map[string]any{
	"port":                        "5000",
	"grpc_port":                   "",
	"model_path":                  "fraud_model.json",
	"scaler_path":                 "scaler.json",
	"environment":                 "development",
	"log_level":                   "info",
	"log_format":                  "json",
	"kafka_brokers":               "",
	"kafka_topic":                 "fraud.predictions",
	"kafka_tls":                   false,
	"kafka_sasl_mechanism":        "",
	"kafka_sasl_username":         "",
	"kafka_sasl_password":         "",
	"otel_exporter_otlp_endpoint": "",
	"grpc_reflection":             false,
	"grpc_tls_cert_file":          "",
	"grpc_tls_key_file":           "",
	"rate_limit":                  0,
}

// Load reads configuration from defaults, then the optional YAML file named
// by FRAUD_CONFIG_FILE, then environment variables (PORT, MODEL_PATH, ...).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validatePort("PORT", c.HTTPPort); err != nil {
		return err
	}
	if c.GRPCPort != "" {
		if err := validatePort("GRPC_PORT", c.GRPCPort); err != nil {
			return err
		}
	}
	if c.ModelPath == "" || c.ScalerPath == "" {
		return fmt.Errorf("MODEL_PATH and SCALER_PATH must not be empty")
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid RATE_LIMIT %d: must not be negative", c.RateLimit)
	}
	return nil
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %q: must be a number between 1 and 65535", name, value)
	}
	return nil
}

// HTTPAddress returns the HTTP listen address on all interfaces.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("0.0.0.0:%s", c.HTTPPort)
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// GRPCEnabled reports whether the gRPC listener should start.
func (c *Config) GRPCEnabled() bool {
	return c.GRPCPort != ""
}

// KafkaEnabled reports whether events go to Kafka rather than the log.
func (c *Config) KafkaEnabled() bool {
	return len(pkgkafka.ParseBrokers(c.KafkaBrokers)) > 0
}

// Kafka returns the broker connection settings.
func (c *Config) Kafka() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       pkgkafka.ParseBrokers(c.KafkaBrokers),
		TLS:           c.KafkaTLS,
		SASLEnabled:   c.KafkaSASLUsername != "",
		SASLMechanism: c.KafkaSASLMechanism,
		SASLUsername:  c.KafkaSASLUsername,
		SASLPassword:  c.KafkaSASLPassword,
	}
}
