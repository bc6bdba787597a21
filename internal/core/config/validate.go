package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks structural configuration correctness.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("git_path", c.GitPath, notEmpty),
		criterio.Run("check.log_limit", c.Check.LogLimit, positive),
		criterio.Run("check.diff_budget", c.Check.DiffBudget, positive),
		criterio.Run("check.workers", c.Check.Workers, positive),
		c.validateSources(),
	)
}

func (c *Config) validateSources() error {
	var errs criterio.FieldErrorsBuilder
	for i, src := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)

		switch src.Type {
		case "github", "jira":
		default:
			errs = errs.Append(field+".type", fmt.Errorf("unknown source type %q", src.Type))
		}

		if src.URL == "" {
			errs = errs.Append(field+".url", fmt.Errorf("url is required"))
			continue
		}
		// GitHub sources may use the owner/repo shorthand; anything with a
		// scheme must parse as a real URL.
		if strings.Contains(src.URL, "://") {
			if u, err := url.Parse(src.URL); err != nil || u.Host == "" {
				errs = errs.Append(field+".url", fmt.Errorf("invalid url %q", src.URL))
			}
		}

		if src.Type == "jira" && src.ProjectKey == "" {
			errs = errs.Append(field+".project_key", fmt.Errorf("project_key is required for jira sources"))
		}
	}
	return errs.ToError()
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func positive(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}
