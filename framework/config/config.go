package config

import (
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the central typed configuration struct.
type Config struct {
	App        AppConfig
	Discovery  DiscoveryConfig
	Resolution ResolutionConfig
	HTTP       HTTPConfig
	Log        LogConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

// DiscoveryConfig controls where definition files are looked for.
type DiscoveryConfig struct {
	Dir     string
	Exclude []string
}

// ResolutionConfig controls container behaviour.
type ResolutionConfig struct {
	// Strict turns unknown dependency names into errors instead of nil.
	Strict bool
}

type HTTPConfig struct {
	Port        string
	MetricsPath string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

// defaults maps viper keys to their fallback values. A key such as
// "inject.dir" is read from the INJECT_DIR environment variable.
var defaults = map[string]any{
	"app.name":          "go-inject",
	"app.env":           "local",
	"app.debug":         false,
	"inject.dir":        "./modules",
	"inject.exclude":    "",
	"inject.strict":     false,
	"http.port":         "8000",
	"http.metrics_path": "/metrics",
	"log.level":         "info",
	"log.format":        "console",
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	return LoadWith(viper.New(), envFiles...)
}

// LoadWith is Load with a caller-owned viper instance, so command-line flags
// bound to the same keys take precedence over the environment.
func LoadWith(v *viper.Viper, envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		App: AppConfig{
			Name:  v.GetString("app.name"),
			Env:   v.GetString("app.env"),
			Debug: v.GetBool("app.debug"),
		},
		Discovery: DiscoveryConfig{
			Dir:     v.GetString("inject.dir"),
			Exclude: splitList(v.GetString("inject.exclude")),
		},
		Resolution: ResolutionConfig{
			Strict: v.GetBool("inject.strict"),
		},
		HTTP: HTTPConfig{
			Port:        v.GetString("http.port"),
			MetricsPath: v.GetString("http.metrics_path"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	v := viper.New()
	v.AutomaticEnv()
	if s := v.GetString(key); s != "" {
		return s
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	i, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(Get(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}

// ── helpers ─────────────────────────────────────────────────────────────────

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
