package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/transform"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Vault      VaultConfig       `yaml:"vault"`
	Output     OutputConfig      `yaml:"output"`
	Transforms TransformsConfig  `yaml:"transforms"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Transforms.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the preview server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig describes where notes come from and which ones qualify.
type VaultConfig struct {
	Path         string   `yaml:"path"`
	SourceDirs   []string `yaml:"source_dirs"`
	RequiredTags []string `yaml:"required_tags"`
	ExcludedTags []string `yaml:"excluded_tags"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig describes the publish destination tree.
type OutputConfig struct {
	Path            string `yaml:"path"`
	ContentDir      string `yaml:"content_dir"`
	ImageDir        string `yaml:"image_dir"`
	ImagePathPrefix string `yaml:"image_path_prefix"`
	ImageExtension  string `yaml:"image_extension"`
	WarnMissing     bool   `yaml:"warn_missing_links"`
	Concurrency     int    `yaml:"concurrency"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.Concurrency, validation.Min(0)),
	)
}

// TransformsConfig selects the three output-dialect strategies. Each
// section validates at load time so a bad pipeline fails before any
// document is touched.
type TransformsConfig struct {
	Links       transform.LinksConfig       `yaml:"links"`
	Tags        transform.TagsConfig        `yaml:"tags"`
	Frontmatter transform.FrontmatterConfig `yaml:"frontmatter"`
}

// Validate validates the transform configuration.
func (c *TransformsConfig) Validate() error {
	if err := c.Links.Validate(); err != nil {
		return err
	}
	if err := c.Tags.Validate(); err != nil {
		return err
	}
	return c.Frontmatter.Validate()
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:       "./vault",
			SourceDirs: []string{"."},
		},
		Output: OutputConfig{
			Path:            "./public",
			ContentDir:      "posts",
			ImageDir:        "images",
			ImagePathPrefix: "/images",
			WarnMissing:     true,
			Concurrency:     4,
		},
		Transforms: TransformsConfig{
			Links: transform.LinksConfig{
				Style: transform.LinkStyleRelative,
			},
		},
	}
}
