package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

const DefaultEnvPrefix = "TUNEGEN"

// Loader builds a Config (builder style).
type Loader struct {
	configPath string
	dotEnvPath string
	envPrefix  string
}

func NewLoader() *Loader {
	return &Loader{
		envPrefix: DefaultEnvPrefix,
	}
}

// WithConfigPath sets a YAML file to load. A missing file is an error.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithDotEnv reads KEY=VALUE pairs from path. Variables already present in
// the process environment win. A missing file is ignored.
func (l *Loader) WithDotEnv(path string) *Loader {
	l.dotEnvPath = path
	return l
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load applies defaults, the YAML file, then the environment. It does not
// call Validate; callers do that after applying flag overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(l.configPath) != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	lookup, err := l.envLookup()
	if err != nil {
		return nil, err
	}
	if err := setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix, lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return errors.NewConfig("failed to read config file "+l.configPath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewConfig("failed to parse config file "+l.configPath, err)
	}
	return nil
}

func (l *Loader) envLookup() (func(string) (string, bool), error) {
	dotenv := map[string]string{}
	if strings.TrimSpace(l.dotEnvPath) != "" {
		m, err := godotenv.Read(l.dotEnvPath)
		switch {
		case err == nil:
			dotenv = m
		case os.IsNotExist(err):
		default:
			return nil, errors.NewConfig("failed to read env file "+l.dotEnvPath, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func setFieldsFromEnv(v reflect.Value, prefix string, lookup func(string) (string, bool)) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag

		if field.Kind() == reflect.Struct {
			if err := setFieldsFromEnv(field, key, lookup); err != nil {
				return err
			}
			continue
		}

		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := setFieldValue(field, strings.TrimSpace(raw)); err != nil {
			return errors.NewConfig("invalid value for "+key, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			var parts []string
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
	return nil
}
