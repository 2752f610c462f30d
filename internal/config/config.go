package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/common"
	"github.com/loykin/petfriends/internal/constants"
	"github.com/loykin/petfriends/internal/httpc"
	"github.com/loykin/petfriends/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is returned when an operation needs the fixture
// email/password pair and none was configured.
var ErrMissingCredentials = errors.New("config: email and password are required")

type ImagesConfig struct {
	JPEG string `mapstructure:"jpeg" yaml:"jpeg"`
	GIF  string `mapstructure:"gif" yaml:"gif"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
}

// Settings is everything the CLI and the suite need to reach the service.
type Settings struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Insecure      bool          `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string        `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	Email         string        `mapstructure:"email" yaml:"email"`
	Password      string        `mapstructure:"password" yaml:"password"`
	Images        ImagesConfig  `mapstructure:"images" yaml:"images"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SetDefaults registers every known key so that environment variables can
// override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", constants.DefaultBaseURL)
	v.SetDefault("timeout", constants.DefaultTimeout)
	v.SetDefault("insecure", false)
	v.SetDefault("min_tls_version", "")
	v.SetDefault("email", "")
	v.SetDefault("password", "")
	v.SetDefault("images.jpeg", constants.DefaultJPEGFixture)
	v.SetDefault("images.gif", constants.DefaultGIFFixture)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.mask_sensitive", true)
}

// Load builds Settings from, lowest precedence first: defaults, the YAML file
// at path, the dotenv file, PETFRIENDS_* environment variables and whatever
// flags were bound to v. A missing file at either path is not an error.
func Load(v *viper.Viper, path, dotenv string) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if p, ok := util.TrimEmptyCheck(path); ok {
		doc, err := readYAML(p)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			if err := v.MergeConfigMap(doc); err != nil {
				return nil, fmt.Errorf("merge config %s: %w", p, err)
			}
		}
	}

	if p, ok := util.TrimEmptyCheck(dotenv); ok {
		// existing environment variables win over the file
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv %s: %w", p, err)
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&s, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func readYAML(path string) (map[string]any, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user/CI; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc := map[string]any{}
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return nil, fmt.Errorf("decode config %s: %w", clean, err)
	}
	return doc, nil
}

// Validate checks values that would otherwise fail later with a less helpful error.
func (s *Settings) Validate() error {
	u, err := url.Parse(strings.TrimSpace(s.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", s.BaseURL)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s (must not be negative)", s.Timeout)
	}
	if v, ok := util.TrimEmptyCheck(s.MinTLSVersion); ok && httpc.ParseTLSVersion(v) == 0 {
		return fmt.Errorf("invalid min_tls_version %q", s.MinTLSVersion)
	}
	if _, ok := common.ParseLogLevel(s.Logging.Level); !ok {
		return fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", s.Logging.Level)
	}
	return nil
}

// Credentials returns the configured fixture pair.
func (s *Settings) Credentials() petfriends.Credentials {
	return petfriends.Credentials{Email: s.Email, Password: s.Password}
}

// RequireCredentials is Credentials that fails when either value is empty.
func (s *Settings) RequireCredentials() (petfriends.Credentials, error) {
	if strings.TrimSpace(s.Email) == "" || strings.TrimSpace(s.Password) == "" {
		return petfriends.Credentials{}, ErrMissingCredentials
	}
	return s.Credentials(), nil
}

// TLSConfig returns nil unless a TLS option is set.
func (s *Settings) TLSConfig() *tls.Config {
	minVersion := httpc.ParseTLSVersion(s.MinTLSVersion)
	if !s.Insecure && minVersion == 0 {
		return nil
	}
	// #nosec G402 -- insecure is an explicit opt-in for test environments
	return &tls.Config{InsecureSkipVerify: s.Insecure, MinVersion: minVersion}
}

// ClientConfig maps the settings onto a client configuration.
func (s *Settings) ClientConfig() petfriends.Config {
	return petfriends.Config{
		BaseURL:   s.BaseURL,
		Timeout:   s.Timeout,
		TLSConfig: s.TLSConfig(),
		Logger:    common.GetLogger(),
	}
}

// SetupLogging installs the process-wide logger described by the settings.
func (s *Settings) SetupLogging() error {
	level, ok := common.ParseLogLevel(s.Logging.Level)
	if !ok {
		return fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", s.Logging.Level)
	}
	masker := common.GetGlobalMasker()
	masker.SetEnabled(s.Logging.MaskSensitive == nil || *s.Logging.MaskSensitive)

	format := util.TrimAndLower(s.Logging.Format)
	switch format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json)", s.Logging.Format)
	}
	common.SetDefaultLogger(common.NewLoggerTo(os.Stderr, level, format, masker))
	return nil
}
