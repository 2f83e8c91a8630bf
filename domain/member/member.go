// Package member provides the member record value type and pure validation.
// This package has NO dependencies on I/O or external packages.
package member

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
)

// Secret holds a credential that must never leak through logging or
// serialization. The cleartext is only reachable through Value.
type Secret string

// Value returns the cleartext secret.
func (s Secret) Value() string { return string(s) }

// String implements fmt.Stringer with a redacted value.
func (s Secret) String() string { return "******" }

// MarshalJSON always emits a redacted value.
func (s Secret) MarshalJSON() ([]byte, error) { return []byte(`"******"`), nil }

// Member is a validated, immutable-once-loaded record (value type).
type Member struct {
	MemberID    string `yaml:"memberid"`
	Name        string `yaml:"name"`
	PIN         Secret `yaml:"pin"`
	Password    Secret `yaml:"password"`
	IsActive    bool   `yaml:"is_active"`
	IPAddress   string `yaml:"ipaddress"`
	ReportURL   string `yaml:"report_url"`
	AllowNosign bool   `yaml:"allow_nosign"`
}

// Key returns the unique identifier used by the record store.
func (m Member) Key() string { return m.MemberID }

// Active reports whether the member may transact.
func (m Member) Active() bool { return m.IsActive }

var memberIDRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Validate checks the record against the member schema.
func (m Member) Validate() error {
	if len(m.MemberID) < 5 {
		return fmt.Errorf("memberid must be at least 5 characters")
	}
	if !memberIDRe.MatchString(m.MemberID) {
		return fmt.Errorf("memberid must be alphanumeric")
	}
	if m.Name == "" || len(m.Name) > 100 {
		return fmt.Errorf("name must be 1-100 characters")
	}
	if len(m.PIN) < 6 {
		return fmt.Errorf("pin must be at least 6 characters")
	}
	if len(m.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if ip := net.ParseIP(m.IPAddress); ip == nil || ip.To4() == nil {
		return fmt.Errorf("ipaddress must be a valid IPv4 address")
	}
	if !isHTTPURL(m.ReportURL) {
		return fmt.Errorf("report_url must be an http or https URL")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
