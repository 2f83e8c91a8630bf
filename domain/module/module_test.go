package module_test

import (
	"testing"

	"github.com/artpar/digigate/domain/module"
)

func validModule() module.Module {
	return module.Module{
		ModuleID:   "MOD01",
		Name:       "Primary Connection",
		Username:   "gw-user",
		MSISDN:     "628110001111",
		PIN:        "9876",
		Password:   "modpass",
		Email:      "ops@example.com",
		IsActive:   true,
		BaseURL:    "https://api.provider.example",
		Timeout:    30,
		MaxRetries: 2,
		SecondWait: 1,
		Provider:   "digipos",
	}
}

func TestModuleValidate(t *testing.T) {
	if err := validModule().Validate(); err != nil {
		t.Fatalf("valid module rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*module.Module)
	}{
		{"missing moduleid", func(m *module.Module) { m.ModuleID = "" }},
		{"missing name", func(m *module.Module) { m.Name = "" }},
		{"missing username", func(m *module.Module) { m.Username = "" }},
		{"missing provider", func(m *module.Module) { m.Provider = "" }},
		{"bad email", func(m *module.Module) { m.Email = "not-an-email" }},
		{"bad base url", func(m *module.Module) { m.BaseURL = "gopher://x" }},
		{"zero timeout", func(m *module.Module) { m.Timeout = 0 }},
		{"negative retries", func(m *module.Module) { m.MaxRetries = -1 }},
		{"negative wait", func(m *module.Module) { m.SecondWait = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModule()
			tc.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestModuleAttr(t *testing.T) {
	m := validModule()

	cases := map[string]string{
		"moduleid":    "MOD01",
		"username":    "gw-user",
		"msisdn":      "628110001111",
		"pin":         "9876",
		"password":    "modpass",
		"email":       "ops@example.com",
		"base_url":    "https://api.provider.example",
		"provider":    "digipos",
		"timeout":     "30",
		"max_retries": "2",
		"second_wait": "1",
	}
	for name, want := range cases {
		got, ok := m.Attr(name)
		if !ok {
			t.Errorf("Attr(%q) not resolvable", name)
			continue
		}
		if got != want {
			t.Errorf("Attr(%q) = %q, want %q", name, got, want)
		}
	}

	if _, ok := m.Attr("nonexistent"); ok {
		t.Error("unknown attribute resolved")
	}
}
