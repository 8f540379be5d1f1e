// Package config loads the framestore configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/framestore/internal/model"
)

const (
	XDGName = "framestore"
	// EnvPath overrides the config file location.
	EnvPath = "FRAMESTORE_CONFIG"
)

type Config struct {
	Roots            []string      `yaml:"roots" validate:"required,min=1,unique,dive,required"`
	Trash            string        `yaml:"trash" validate:"required"`
	User             string        `yaml:"user" validate:"required"`
	MaxCache         int           `yaml:"maxCache" validate:"gte=1"`
	Format           string        `yaml:"format" validate:"required,startswith=."`
	DefaultTemplate  string        `yaml:"defaultTemplate,omitempty" validate:"omitempty,framename"`
	ProfileFramesets []string      `yaml:"profileFramesets,omitempty" validate:"unique,dive,frameset"`
	Journal          string        `yaml:"journal,omitempty"`
	Peer             string        `yaml:"peer,omitempty"`
	IdleThreshold    time.Duration `yaml:"idleThreshold" validate:"gte=0"`
}

// Default is the configuration used when no file exists, and the base every
// file is merged over.
func Default() Config {
	data := filepath.Join(xdg.DataHome, XDGName)
	return Config{
		Roots:         []string{filepath.Join(data, "framesets")},
		Trash:         filepath.Join(data, "trash"),
		User:          defaultUser(),
		MaxCache:      100,
		Format:        ".exp",
		Journal:       filepath.Join(data, "journal.db"),
		IdleThreshold: 2 * time.Minute,
	}
}

// Path returns the config file to read: $FRAMESTORE_CONFIG, else the first
// framestore/config.yaml on the XDG config search path. It returns "" when
// neither exists.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	p, err := xdg.SearchConfigFile(filepath.Join(XDGName, "config.yaml"))
	if err != nil {
		return ""
	}
	return p
}

// Load reads the config at path, or Path() when path is empty. With no file
// to read it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	if path == "" {
		c := Default()
		if err := c.finish(); err != nil {
			return nil, err
		}
		return &c, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("unable to open config: %w", err)
	}
	defer fh.Close()
	return NewFromReader(fh)
}

// NewFromReader decodes YAML from r over Default() and validates the result.
func NewFromReader(r io.Reader) (*Config, error) {
	c := Default()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return &c, nil
}

// finish expands ~ in every path and validates.
func (c *Config) finish() error {
	for i, r := range c.Roots {
		expanded, err := homedir.Expand(r)
		if err != nil {
			return err
		}
		c.Roots[i] = expanded
	}
	for _, p := range []*string{&c.Trash, &c.Journal, &c.Peer} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("framename", func(fl validator.FieldLevel) bool {
		return model.IsValidFrameName(fl.Field().String())
	})
	v.RegisterValidation("frameset", func(fl validator.FieldLevel) bool {
		return model.IsValidFramesetName(fl.Field().String())
	})
	return v
}

func defaultUser() string {
	for _, k := range []string{"FRAMESTORE_USER", "USER", "USERNAME"} {
		if u := os.Getenv(k); u != "" {
			return u
		}
	}
	return "anonymous"
}
