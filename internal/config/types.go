package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	DSN            string        `yaml:"dsn"` // MySQL DSN
	RedisURL       string        `yaml:"redis_url"`
	Env            string        `yaml:"env"` // "development" | "production"
	JWTSecret      string        `yaml:"jwt_secret"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Editing        EditingConfig `yaml:"editing"`
}

// EditingConfig carries the field constraints and confirmation windows the
// editor consumes. Limits live in config, not code, so an instance can tune
// them without a rebuild.
type EditingConfig struct {
	NameMaxLen    int `yaml:"name_max_len"`
	TextMaxLen    int `yaml:"text_max_len"`
	URLMaxLen     int `yaml:"url_max_len"`
	TagMaxLen     int `yaml:"tag_max_len"`
	TagsMax       int `yaml:"tags_max"`
	ArgNameMaxLen int `yaml:"arg_name_max_len"`

	ConfirmWindowMS  int `yaml:"confirm_window_ms"`  // discard / save-mine double-ack window
	FeedbackWindowMS int `yaml:"feedback_window_ms"` // copy-to-clipboard feedback
}

// ConfirmWindow returns the confirmation window as a duration.
func (e EditingConfig) ConfirmWindow() time.Duration {
	return time.Duration(e.ConfirmWindowMS) * time.Millisecond
}

// FeedbackWindow returns the copy feedback window as a duration.
func (e EditingConfig) FeedbackWindow() time.Duration {
	return time.Duration(e.FeedbackWindowMS) * time.Millisecond
}

// IsDev reports whether the instance runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
