// Package config loads idserver settings from flags, IDJSON_* environment
// variables and an optional JSON, JSONC or YAML file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	idjson "github.com/reoring/idjson"
)

// EnvPrefix prefixes every environment override, e.g. IDJSON_SERVER_ADDR.
const EnvPrefix = "IDJSON"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Codec  CodecConfig  `mapstructure:"codec"`
	Log    LogConfig    `mapstructure:"log"`
	Errors ErrorsConfig `mapstructure:"errors"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Framework       string        `mapstructure:"framework"` // echo | gin
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CodecConfig struct {
	Engine        string `mapstructure:"engine"` // native | jsoniter
	Driver        string `mapstructure:"driver"` // json | gojson
	Indent        bool   `mapstructure:"indent"`
	MaxDepth      int    `mapstructure:"max_depth"`
	MaxBytes      int64  `mapstructure:"max_bytes"`
	UnknownFields string `mapstructure:"unknown_fields"` // ignore | reject
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
}

type ErrorsConfig struct {
	Lang string `mapstructure:"lang"` // en | ja
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", Framework: "echo", ShutdownTimeout: 10 * time.Second},
		Codec:  CodecConfig{Engine: "native", Driver: "json", MaxDepth: 64, MaxBytes: 1 << 20, UnknownFields: "ignore"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Errors: ErrorsConfig{Lang: "en"},
	}
}

// AddFlags registers one flag per setting. Flag names match the config keys.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (.json, .jsonc or .yaml)")
	fs.String("server.addr", d.Server.Addr, "listen address")
	fs.String("server.framework", d.Server.Framework, "HTTP framework: echo | gin")
	fs.Duration("server.shutdown_timeout", d.Server.ShutdownTimeout, "graceful shutdown timeout")
	fs.String("codec.engine", d.Codec.Engine, "serialization pipeline: native | jsoniter")
	fs.String("codec.driver", d.Codec.Driver, "tokenizer for the native pipeline: json | gojson")
	fs.Bool("codec.indent", d.Codec.Indent, "indent JSON responses")
	fs.Int("codec.max_depth", d.Codec.MaxDepth, "maximum nesting depth of request bodies (0 = unlimited)")
	fs.Int64("codec.max_bytes", d.Codec.MaxBytes, "maximum size of request bodies in bytes (0 = unlimited)")
	fs.String("codec.unknown_fields", d.Codec.UnknownFields, "unknown request members: ignore | reject")
	fs.String("log.level", d.Log.Level, "log level: debug | info | warn | error")
	fs.String("log.format", d.Log.Format, "log format: text | json")
	fs.String("errors.lang", d.Errors.Lang, "language of error messages: en | ja")
}

// Load merges, in increasing precedence, defaults, the config file, IDJSON_*
// environment variables and flags that were set explicitly.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, err
		}
	}
	if path := v.GetString("config"); path != "" {
		if err := readFile(v, path); err != nil {
			return Config{}, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("config", "")
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.framework", d.Server.Framework)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("codec.engine", d.Codec.Engine)
	v.SetDefault("codec.driver", d.Codec.Driver)
	v.SetDefault("codec.indent", d.Codec.Indent)
	v.SetDefault("codec.max_depth", d.Codec.MaxDepth)
	v.SetDefault("codec.max_bytes", d.Codec.MaxBytes)
	v.SetDefault("codec.unknown_fields", d.Codec.UnknownFields)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("errors.lang", d.Errors.Lang)
}

// readFile loads path into v. JSON files may carry comments and trailing
// commas; they are normalized with jsonc first.
func readFile(v *viper.Viper, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate rejects unknown enumerated values.
func (c Config) Validate() error {
	checks := []struct {
		key, val string
		allowed  []string
	}{
		{"server.framework", c.Server.Framework, []string{"echo", "gin"}},
		{"codec.engine", c.Codec.Engine, []string{"native", "jsoniter"}},
		{"codec.driver", c.Codec.Driver, []string{"gojson", "json"}},
		{"codec.unknown_fields", c.Codec.UnknownFields, []string{"ignore", "reject"}},
		{"log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}},
		{"log.format", c.Log.Format, []string{"text", "json"}},
		{"errors.lang", c.Errors.Lang, []string{"en", "ja"}},
	}
	for _, ch := range checks {
		ok := false
		for _, a := range ch.allowed {
			if ch.val == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("config: %s: %q is not one of %s", ch.key, ch.val, strings.Join(ch.allowed, ", "))
		}
	}
	if c.Codec.MaxDepth < 0 || c.Codec.MaxBytes < 0 {
		return fmt.Errorf("config: codec limits must not be negative")
	}
	return nil
}

// DecodeOpt maps the codec limits onto idjson decode options.
func (c CodecConfig) DecodeOpt() idjson.DecodeOpt {
	o := idjson.DecodeOpt{
		Strictness: idjson.Strictness{OnDuplicateKey: idjson.Error},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
	}
	if c.UnknownFields == "reject" {
		o.Unknown = idjson.UnknownReject
	}
	return o
}

// SerializerOptions returns the idjson options for the native pipeline.
func (c CodecConfig) SerializerOptions() ([]idjson.Option, error) {
	d, err := idjson.DriverByName(c.Driver)
	if err != nil {
		return nil, err
	}
	opts := []idjson.Option{idjson.WithDriver(d), idjson.WithDecodeOpt(c.DecodeOpt())}
	if c.Indent {
		opts = append(opts, idjson.WithIndent("", "  "))
	}
	return opts, nil
}

// NewLogger builds the process logger on w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
