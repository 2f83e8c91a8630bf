package member_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/artpar/digigate/domain/member"
)

func validMember() member.Member {
	return member.Member{
		MemberID:    "AGT001",
		Name:        "Test Agent",
		PIN:         member.Secret("123456"),
		Password:    member.Secret("hunter22"),
		IsActive:    true,
		IPAddress:   "10.0.0.5",
		ReportURL:   "https://agent.example.com/report",
		AllowNosign: false,
	}
}

func TestMemberValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*member.Member)
		wantErr bool
	}{
		{"valid", func(m *member.Member) {}, false},
		{"short memberid", func(m *member.Member) { m.MemberID = "AG1" }, true},
		{"non-alphanumeric memberid", func(m *member.Member) { m.MemberID = "AGT-001" }, true},
		{"empty name", func(m *member.Member) { m.Name = "" }, true},
		{"name too long", func(m *member.Member) { m.Name = strings.Repeat("x", 101) }, true},
		{"short pin", func(m *member.Member) { m.PIN = "12345" }, true},
		{"short password", func(m *member.Member) { m.Password = "abc" }, true},
		{"bad ip", func(m *member.Member) { m.IPAddress = "999.0.0.1" }, true},
		{"ipv6 rejected", func(m *member.Member) { m.IPAddress = "::1" }, true},
		{"bad report url", func(m *member.Member) { m.ReportURL = "ftp://example.com" }, true},
		{"report url no host", func(m *member.Member) { m.ReportURL = "https://" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMember()
			tc.mutate(&m)
			err := m.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSecretRedaction(t *testing.T) {
	s := member.Secret("supersecret")

	if got := s.String(); got != "******" {
		t.Errorf("String() = %q, want redacted", got)
	}
	if got := fmt.Sprintf("%v", s); got != "******" {
		t.Errorf("%%v = %q, want redacted", got)
	}
	if got := fmt.Sprintf("member: %s", s); strings.Contains(got, "supersecret") {
		t.Errorf("formatted output leaked the secret: %q", got)
	}
	if got := s.Value(); got != "supersecret" {
		t.Errorf("Value() = %q, want cleartext", got)
	}
}

func TestSecretJSONRedaction(t *testing.T) {
	m := validMember()
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "123456") || strings.Contains(string(out), "hunter22") {
		t.Errorf("JSON output leaked credentials: %s", out)
	}
}

func TestMemberKeyAndActive(t *testing.T) {
	m := validMember()
	if m.Key() != "AGT001" {
		t.Errorf("Key() = %q", m.Key())
	}
	if !m.Active() {
		t.Error("Active() = false for active member")
	}
	m.IsActive = false
	if m.Active() {
		t.Error("Active() = true for inactive member")
	}
}
