package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration of a benchmark run.
type Config struct {
	Target  TargetConfig  `yaml:"target"`
	Load    LoadConfig    `yaml:"load"`
	Payment PaymentConfig `yaml:"payment"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Mock    MockConfig    `yaml:"mock"`
}

// TargetConfig holds the service endpoints.
type TargetConfig struct {
	AuthURL     string `yaml:"auth_url" env:"GB_AUTH_URL"`
	MerchantURL string `yaml:"merchant_url" env:"GB_MERCHANT_URL"`
	PaymentURL  string `yaml:"payment_url" env:"GB_PAYMENT_URL"`
	Password    string `yaml:"password" env:"GB_PASSWORD"`
	WebhookURL  string `yaml:"webhook_url" env:"GB_WEBHOOK_URL"`
}

// LoadConfig holds the load phase parameters.
type LoadConfig struct {
	Concurrency      int           `yaml:"concurrency" env:"GB_CONCURRENCY"`
	Duration         time.Duration `yaml:"duration" env:"GB_DURATION"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env:"GB_REQUEST_TIMEOUT"`
	Rate             float64       `yaml:"rate" env:"GB_RATE"`
	ProgressInterval time.Duration `yaml:"progress_interval" env:"GB_PROGRESS_INTERVAL"`
	MaxErrorRate     float64       `yaml:"max_error_rate" env:"GB_MAX_ERROR_RATE"`
	MaxConnsPerHost  int           `yaml:"max_conns_per_host" env:"GB_MAX_CONNS_PER_HOST"`
}

// PaymentConfig holds the transaction payload template.
type PaymentConfig struct {
	Currency       string `yaml:"currency" env:"GB_PAYMENT_CURRENCY"`
	MinAmount      int    `yaml:"min_amount" env:"GB_PAYMENT_MIN_AMOUNT"`
	MaxAmount      int    `yaml:"max_amount" env:"GB_PAYMENT_MAX_AMOUNT"`
	PaymentMethod  string `yaml:"payment_method" env:"GB_PAYMENT_METHOD"`
	CardNumber     string `yaml:"card_number" env:"GB_PAYMENT_CARD_NUMBER"`
	ExpiryMonth    string `yaml:"expiry_month" env:"GB_PAYMENT_EXPIRY_MONTH"`
	ExpiryYear     string `yaml:"expiry_year" env:"GB_PAYMENT_EXPIRY_YEAR"`
	CVV            string `yaml:"cvv" env:"GB_PAYMENT_CVV"`
	CardHolderName string `yaml:"card_holder_name" env:"GB_PAYMENT_CARD_HOLDER"`
	CustomerEmail  string `yaml:"customer_email" env:"GB_PAYMENT_CUSTOMER_EMAIL"`
}

// ReportConfig holds report output options.
type ReportConfig struct {
	Format         string `yaml:"format" env:"GB_REPORT_FORMAT"`
	JSONFile       string `yaml:"json_file" env:"GB_REPORT_JSON_FILE"`
	PrometheusFile string `yaml:"prometheus_file" env:"GB_REPORT_PROMETHEUS_FILE"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"GB_LOG_LEVEL"`
	Format     string `yaml:"format" env:"GB_LOG_FORMAT"`
	Output     string `yaml:"output" env:"GB_LOG_OUTPUT"`
	FilePath   string `yaml:"file_path" env:"GB_LOG_FILE"`
	MaxSize    int    `yaml:"max_size" env:"GB_LOG_MAX_SIZE"`
	MaxBackups int    `yaml:"max_backups" env:"GB_LOG_MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" env:"GB_LOG_MAX_AGE"`
}

// MockConfig holds the in-process mock gateway options.
type MockConfig struct {
	Address     string        `yaml:"address" env:"GB_MOCK_ADDRESS"`
	Latency     time.Duration `yaml:"latency" env:"GB_MOCK_LATENCY"`
	FailEvery   int           `yaml:"fail_every" env:"GB_MOCK_FAIL_EVERY"`
	IDField     string        `yaml:"id_field" env:"GB_MOCK_ID_FIELD"`
	RequireAuth bool          `yaml:"require_auth" env:"GB_MOCK_REQUIRE_AUTH"`
}

// 报告格式
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			AuthURL:     "http://localhost:8081/auth",
			MerchantURL: "http://localhost:8083/merchants",
			PaymentURL:  "http://localhost:8082/payments",
			Password:    "password123",
			WebhookURL:  "http://localhost:9999/webhook",
		},
		Load: LoadConfig{
			Concurrency:      1,
			Duration:         30 * time.Second,
			RequestTimeout:   10 * time.Second,
			ProgressInterval: 5 * time.Second,
			MaxConnsPerHost:  512,
		},
		Payment: PaymentConfig{
			Currency:       "USD",
			MinAmount:      10,
			MaxAmount:      500,
			PaymentMethod:  "CARD",
			CardNumber:     "4111222233334444",
			ExpiryMonth:    "12",
			ExpiryYear:     "2030",
			CVV:            "123",
			CardHolderName: "Load Tester",
			CustomerEmail:  "tester@example.com",
		},
		Report: ReportConfig{
			Format: FormatText,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Mock: MockConfig{
			Address:     "127.0.0.1:8090",
			IDField:     "id",
			RequireAuth: true,
		},
	}
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
	envPrefix  string
	cmdArgs    map[string]string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: "GB_",
		cmdArgs:   make(map[string]string),
	}
}

// WithConfigPath sets the path to the YAML configuration file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix replaces the GB_ prefix of the env tags.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithCmdArgs sets dot-path overrides, e.g. {"load.concurrency": "8"}.
func (l *Loader) WithCmdArgs(args map[string]string) *Loader {
	l.cmdArgs = args
	return l
}

// Load loads configuration from all sources with proper precedence:
// defaults < YAML file < environment variables < command-line flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("从文件加载配置失败: %w", err)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("应用环境变量覆盖失败: %w", err)
	}

	if err := l.applyCmdOverrides(cfg); err != nil {
		return nil, fmt.Errorf("应用命令行参数覆盖失败: %w", err)
	}

	return cfg, nil
}

// loadFromFile 读取 YAML 文件；显式指定的文件不存在时报错
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	return nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) error {
	return l.applyEnvToStruct(reflect.ValueOf(cfg).Elem())
}

// applyEnvToStruct recursively applies environment variables to struct fields.
func (l *Loader) applyEnvToStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := l.applyEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		envName := l.envPrefix + strings.TrimPrefix(envTag, "GB_")

		envValue, ok := os.LookupEnv(envName)
		if !ok || envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("从环境变量 %s 设置字段 %s 失败: %w", envName, fieldType.Name, err)
		}
	}

	return nil
}

func (l *Loader) applyCmdOverrides(cfg *Config) error {
	for key, value := range l.cmdArgs {
		if err := SetValue(cfg, key, value); err != nil {
			return fmt.Errorf("设置配置值 %s 失败: %w", key, err)
		}
	}
	return nil
}

// SetValue sets a configuration value by its yaml dot path, e.g. "load.duration".
func SetValue(cfg *Config, path, value string) error {
	parts := strings.Split(path, ".")
	v := reflect.ValueOf(cfg).Elem()

	for i, part := range parts {
		field, ok := fieldByYAMLName(v, part)
		if !ok {
			return fmt.Errorf("未知的配置路径: %s", path)
		}

		if i == len(parts)-1 {
			return setFieldValue(field, value)
		}

		if field.Kind() != reflect.Struct {
			return fmt.Errorf("期望 %s 是结构体，实际是 %s", part, field.Kind())
		}
		v = field
	}

	return nil
}

// fieldByYAMLName 按 yaml tag 查找字段，找不到时退回到忽略大小写和下划线的字段名
func fieldByYAMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	plain := strings.ReplaceAll(name, "_", "")
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if tag == name || strings.EqualFold(f.Name, plain) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from a string value.
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("无法设置字段")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("无效的时间格式: %w", err)
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("无效的整数: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("无效的浮点数: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("无效的布尔值: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("不支持的字段类型: %s", field.Kind())
	}

	return nil
}

// Serialize serializes the configuration to YAML bytes.
func (c *Config) Serialize() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseConfig parses a YAML configuration on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file path.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}
