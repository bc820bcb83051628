package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/fleet"
	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// Config contains runtime configuration shared by the API server and the CLI.
type Config struct {
	HTTPAddr string
	Store    store.Options
	APIKeys  map[string]string // apiKey -> operator

	// Tankers is the fallback roster used when the directory lists no tankers.
	Tankers        []string
	TankerCapacity float64
	Limits         analytics.Limits

	Influx InfluxConfig
	Kafka  KafkaConfig
	Log    logging.Config

	// ConfigFile is the YAML file that was read, if any.
	ConfigFile string
}

// InfluxConfig points the metrics export at an InfluxDB v2 bucket.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Enabled reports whether an InfluxDB URL is configured.
func (c InfluxConfig) Enabled() bool { return c.URL != "" }

// KafkaConfig enables transaction notifications.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// Error lists every required key that has no value and every numeric key
// whose value is not a finite number.
type Error struct {
	Missing []string
	Invalid []string
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "not a number: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// limitKeys maps configuration keys onto Limits fields.
func limitKeys(l *analytics.Limits) []struct {
	key   string
	value *float64
} {
	return []struct {
		key   string
		value *float64
	}{
		{"limit_max_km_delta", &l.MaxKmDelta},
		{"limit_max_hour_delta", &l.MaxHourDelta},
		{"limit_max_fuel_out", &l.MaxFuelOut},
		{"limit_min_km_per_l", &l.MinKmPerL},
		{"limit_max_km_per_l", &l.MaxKmPerL},
		{"limit_min_efficiency_ratio", &l.MinEfficiencyRatio},
		{"limit_max_efficiency_ratio", &l.MaxEfficiencyRatio},
	}
}

// Load reads .env and .env.local, then the environment, then the optional
// YAML file named by FUEL_CONFIG. Environment values win over the file.
// API_KEYS format: "operator1:key1,operator2:key2"
func Load() (Config, error) {
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if file := v.GetString("fuel_config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("store_backend", store.BackendMemory)
	v.SetDefault("tanker_capacity_l", analytics.DefaultTankerCapacity)
	v.SetDefault("kafka_topic", "fuel-transactions")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")

	limits := analytics.DefaultLimits()
	var invalid []string
	for _, k := range limitKeys(&limits) {
		v.SetDefault(k.key, *k.value)
		f, ok := number(v, k.key)
		if !ok {
			invalid = append(invalid, strings.ToUpper(k.key))
			continue
		}
		*k.value = f
	}
	capacity, ok := number(v, "tanker_capacity_l")
	if !ok {
		invalid = append(invalid, "TANKER_CAPACITY_L")
	}
	if len(invalid) > 0 {
		return Config{}, &Error{Invalid: invalid}
	}
	if err := limits.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid limits: %w", err)
	}

	cfg := Config{
		HTTPAddr: v.GetString("http_addr"),
		Store: store.Options{
			Backend:         strings.ToLower(strings.TrimSpace(v.GetString("store_backend"))),
			DBURL:           strings.TrimSpace(v.GetString("db_url")),
			XLSXPath:        strings.TrimSpace(v.GetString("xlsx_path")),
			SpreadsheetID:   strings.TrimSpace(v.GetString("sheet_id")),
			CredentialsFile: strings.TrimSpace(v.GetString("sheets_credentials_file")),
			CredentialsJSON: strings.TrimSpace(v.GetString("sheets_credentials_json")),
		},
		Tankers:        list(v, "tankers"),
		TankerCapacity: capacity,
		Limits:         limits,
		Influx: InfluxConfig{
			URL:    strings.TrimSpace(v.GetString("influx_url")),
			Token:  strings.TrimSpace(v.GetString("influx_token")),
			Org:    strings.TrimSpace(v.GetString("influx_org")),
			Bucket: strings.TrimSpace(v.GetString("influx_bucket")),
		},
		Kafka: KafkaConfig{
			Brokers: list(v, "kafka_brokers"),
			Topic:   strings.TrimSpace(v.GetString("kafka_topic")),
		},
		Log: logging.Config{
			Level:   strings.TrimSpace(v.GetString("log_level")),
			Format:  strings.TrimSpace(v.GetString("log_format")),
			Output:  strings.TrimSpace(v.GetString("log_output")),
			NoColor: v.GetString("no_color") != "",
		},

		ConfigFile: v.ConfigFileUsed(),
	}
	if len(cfg.Tankers) == 0 {
		cfg.Tankers = append([]string(nil), fleet.DefaultTankers...)
	}
	if cfg.TankerCapacity <= 0 {
		return Config{}, errors.New("TANKER_CAPACITY_L must be positive")
	}

	apiKeys, err := parseAPIKeys(v.GetString("api_keys"))
	if err != nil {
		return Config{}, err
	}
	cfg.APIKeys = apiKeys

	if err := cfg.check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// check collects the keys the selected backend and integrations still need.
func (c Config) check() error {
	var missing []string
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendPostgres:
		if c.Store.DBURL == "" {
			missing = append(missing, "DB_URL")
		}
	case store.BackendXLSX:
		if c.Store.XLSXPath == "" {
			missing = append(missing, "XLSX_PATH")
		}
	case store.BackendSheets:
		if c.Store.SpreadsheetID == "" {
			missing = append(missing, "SHEET_ID")
		}
		if c.Store.CredentialsFile == "" && c.Store.CredentialsJSON == "" {
			missing = append(missing, "SHEETS_CREDENTIALS_FILE or SHEETS_CREDENTIALS_JSON")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, postgres, xlsx, sheets; got %q", c.Store.Backend)
	}

	if c.Influx.Enabled() {
		for _, kv := range []struct{ key, value string }{
			{"INFLUX_TOKEN", c.Influx.Token},
			{"INFLUX_ORG", c.Influx.Org},
			{"INFLUX_BUCKET", c.Influx.Bucket},
		} {
			if kv.value == "" {
				missing = append(missing, kv.key)
			}
		}
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		missing = append(missing, "KAFKA_TOPIC")
	}

	if len(missing) > 0 {
		return &Error{Missing: missing}
	}
	return nil
}

// number reads key as a finite float. viper's GetFloat64 maps unparseable
// text to 0, so the raw string is parsed here instead.
func number(v *viper.Viper, key string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`API_KEYS must be "operator:key,operator:key"`)
		}
		operator := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if operator == "" || key == "" {
			return nil, errors.New(`API_KEYS must be "operator:key,operator:key"`)
		}
		apiKeys[key] = operator
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["fuel-key-123"] = "operator1"
	}
	return apiKeys, nil
}

// list reads a comma-separated string or a YAML sequence.
func list(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	case []interface{}:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = strings.Split(fmt.Sprint(val), ",")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
