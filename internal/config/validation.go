package config

import (
	"net/url"
	"path"
	"strings"

	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// Validate checks the fields the build relies on.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.ConfigError("base_url is required").Build()
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigError("base_url must be an absolute http(s) URL").
			WithContext("base_url", c.BaseURL).Build()
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		return errors.ConfigError("base_url must end with a slash").
			WithContext("base_url", c.BaseURL).Build()
	}
	if strings.TrimSpace(c.Source) == "" {
		return errors.ConfigError("source is required").Build()
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		return errors.ConfigError("output.directory is required").Build()
	}
	if path.Clean(c.Output.Directory) == "/" {
		return errors.ConfigError("output.directory must not be the filesystem root").
			WithContext("directory", c.Output.Directory).Build()
	}
	for i, item := range c.Menu {
		if item.Name == "" || item.URL == "" {
			return errors.ConfigError("menu items need a name and a url").
				WithContext("index", i).Build()
		}
	}
	if c.Build.StrictLinks && !c.Build.VerifyLinks {
		return errors.ConfigError("build.strict_links requires build.verify_links").Build()
	}
	return nil
}
