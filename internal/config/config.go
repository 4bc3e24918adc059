package config

import "time"

// Config is the root application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Push    PushConfig    `yaml:"push"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds REST client settings.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"         env:"API_BASE_URL"         env-default:"http://localhost:5000/api"`
	BackendURL     string        `yaml:"backend_url"      env:"API_BACKEND_URL"      env-default:"http://localhost:5000"`
	Timeout        time.Duration `yaml:"timeout"          env:"API_TIMEOUT"          env-default:"10s"`
	ReadRetryDelay time.Duration `yaml:"read_retry_delay" env:"API_READ_RETRY_DELAY" env-default:"500ms"`
}

// PushConfig holds websocket subscription settings.
type PushConfig struct {
	URL         string        `yaml:"url"          env:"PUSH_URL"          env-default:"ws://localhost:5000/ws"`
	ReadLimit   int64         `yaml:"read_limit"   env:"PUSH_READ_LIMIT"   env-default:"1048576"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"PUSH_DIAL_TIMEOUT" env-default:"10s"`
	BufferSize  int           `yaml:"buffer_size"  env:"PUSH_BUFFER_SIZE"  env-default:"64"`
}

// SessionConfig holds the credentials the CLI signs in with. A token skips
// the login call.
type SessionConfig struct {
	Mobile   string `yaml:"mobile"   env:"SESSION_MOBILE"`
	Password string `yaml:"password" env:"SESSION_PASSWORD"`
	Token    string `yaml:"token"    env:"SESSION_TOKEN"`
}

// HasCredentials reports whether a login can be attempted.
func (c SessionConfig) HasCredentials() bool {
	return c.Token != "" || (c.Mobile != "" && c.Password != "")
}

// MetricsConfig holds the Prometheus endpoint settings. An empty address
// disables the endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"METRICS_LISTEN_ADDR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
