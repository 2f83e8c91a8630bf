// Package module provides the provider-connection module record (value type).
package module

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// Module describes one upstream provider connection: credentials, base URL,
// and timeout/retry tuning. Loaded from the modules record file.
type Module struct {
	ModuleID   string `yaml:"moduleid"`
	Name       string `yaml:"name"`
	Username   string `yaml:"username"`
	MSISDN     string `yaml:"msisdn"`
	PIN        string `yaml:"pin"`
	Password   string `yaml:"password"`
	Email      string `yaml:"email"`
	IsActive   bool   `yaml:"is_active"`
	BaseURL    string `yaml:"base_url"`
	Timeout    int    `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
	SecondWait int    `yaml:"second_wait"`
	Provider   string `yaml:"provider"`
}

// Key returns the unique identifier used by the record store.
func (m Module) Key() string { return m.ModuleID }

// Active reports whether the module may serve transactions.
func (m Module) Active() bool { return m.IsActive }

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks the record against the module schema.
func (m Module) Validate() error {
	if m.ModuleID == "" {
		return fmt.Errorf("moduleid is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Username == "" {
		return fmt.Errorf("username is required")
	}
	if m.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !emailRe.MatchString(m.Email) {
		return fmt.Errorf("email is invalid")
	}
	u, err := url.Parse(m.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an http or https URL")
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if m.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if m.SecondWait < 0 {
		return fmt.Errorf("second_wait must not be negative")
	}
	return nil
}

// Attr resolves a named attribute for "modules.<name>" template references.
// Returns false for unknown names.
func (m Module) Attr(name string) (string, bool) {
	switch name {
	case "moduleid":
		return m.ModuleID, true
	case "name":
		return m.Name, true
	case "username":
		return m.Username, true
	case "msisdn":
		return m.MSISDN, true
	case "pin":
		return m.PIN, true
	case "password":
		return m.Password, true
	case "email":
		return m.Email, true
	case "base_url":
		return m.BaseURL, true
	case "provider":
		return m.Provider, true
	case "timeout":
		return strconv.Itoa(m.Timeout), true
	case "max_retries":
		return strconv.Itoa(m.MaxRetries), true
	case "second_wait":
		return strconv.Itoa(m.SecondWait), true
	default:
		return "", false
	}
}
