package config

import (
	"fmt"
	"time"

	"github.com/rezkam/taskdesk/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Health          HealthConfig
	Auth            AuthConfig
	Tasks           TasksConfig
	Reports         ReportsConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"TASKDESK_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"TASKDESK_HTTP_HOST"`
	Port              string        `env:"TASKDESK_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"TASKDESK_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"TASKDESK_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"TASKDESK_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"TASKDESK_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"TASKDESK_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"TASKDESK_HTTP_MAX_BODY_BYTES"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"TASKDESK_TLS_ENABLED"`
	TLSCertFile string `env:"TASKDESK_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TASKDESK_TLS_KEY_FILE"`
}

// Validate requires certificate files when TLS is enabled.
func (c *HTTPConfig) Validate() error {
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("TASKDESK_TLS_CERT_FILE and TASKDESK_TLS_KEY_FILE are required when TLS is enabled")
	}
	return nil
}

// HealthConfig holds the gRPC health endpoint configuration. An empty port disables it.
type HealthConfig struct {
	GRPCPort string `env:"TASKDESK_HEALTH_GRPC_PORT"`
}

// AuthConfig holds authenticator configuration.
type AuthConfig struct {
	OperationTimeout time.Duration `env:"TASKDESK_AUTH_OPERATION_TIMEOUT"`
	UpdateQueueSize  int           `env:"TASKDESK_AUTH_UPDATE_QUEUE_SIZE"`
}

// TasksConfig holds task, permission and profile settings.
type TasksConfig struct {
	PageSize         int      `env:"TASKDESK_PAGE_SIZE"`
	MaxBoardTasks    int      `env:"TASKDESK_MAX_BOARD_TASKS"` // 0 = load every match
	ActiveTaskLimit  int      `env:"TASKDESK_ACTIVE_TASK_LIMIT"`
	ManagerPositions []string `env:"TASKDESK_MANAGER_POSITIONS"` // empty = built-in list
	WeeklyBasis      string   `env:"TASKDESK_WEEKLY_BASIS"`      // created (default), completed
}

// Validate rejects unknown weekly bases.
func (c *TasksConfig) Validate() error {
	switch c.WeeklyBasis {
	case "", "created", "completed":
		return nil
	default:
		return fmt.Errorf("unknown TASKDESK_WEEKLY_BASIS: %s", c.WeeklyBasis)
	}
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"TASKDESK_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
