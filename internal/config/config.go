// Package config loads client settings for the command-line tools.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"github.com/mainspringenergy/gqlclient"
)

// Config is the YAML representation of a client. String values may
// reference environment variables as $VAR or ${VAR}.
type Config struct {
	Endpoint string            `yaml:"endpoint"`
	Method   string            `yaml:"method"`
	Headers  map[string]string `yaml:"headers"`
	Timeout  Duration          `yaml:"timeout"`
	Token    string            `yaml:"token"`
}

// Duration accepts time.ParseDuration strings such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.Expand(string(data), os.Getenv)

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// Merge overrides fields of c with the non-empty fields of other.
func (c *Config) Merge(other *Config) {
	if other.Endpoint != "" {
		c.Endpoint = other.Endpoint
	}
	if other.Method != "" {
		c.Method = other.Method
	}
	if other.Timeout != 0 {
		c.Timeout = other.Timeout
	}
	if other.Token != "" {
		c.Token = other.Token
	}
	for k, v := range other.Headers {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[k] = v
	}
}

// Options converts the configuration into client options. Method is passed
// through as is so that gqlclient.New rejects unsupported values.
func (c *Config) Options() []gqlclient.Option {
	var opts []gqlclient.Option
	if c.Method != "" {
		opts = append(opts, gqlclient.WithMethod(strings.ToUpper(c.Method)))
	}
	header := make(http.Header)
	for k, v := range c.Headers {
		header.Add(k, v)
	}
	opts = append(opts, gqlclient.WithHeaders(header))
	if c.Timeout != 0 {
		opts = append(opts, gqlclient.WithHTTPClient(&http.Client{Timeout: time.Duration(c.Timeout)}))
	}
	if c.Token != "" {
		opts = append(opts, gqlclient.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token})))
	}
	return opts
}

// NewClient builds a client from the configuration.
func (c *Config) NewClient(extra ...gqlclient.Option) (*gqlclient.Client, error) {
	return gqlclient.New(c.Endpoint, append(c.Options(), extra...)...)
}
