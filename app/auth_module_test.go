package app_test

import (
	"testing"

	"github.com/artpar/digigate/app"
	"github.com/rs/zerolog"
)

func TestModuleAuth_Success(t *testing.T) {
	m := testModule()
	svc := app.NewModuleAuthService(fakeModules{m.ModuleID: m}, zerolog.Nop())

	got, err := svc.AuthenticateAndCheckProvider(m.ModuleID, "digipos")
	if err != nil {
		t.Fatalf("AuthenticateAndCheckProvider error: %v", err)
	}
	if got.ModuleID != m.ModuleID {
		t.Errorf("returned module %q, want %q", got.ModuleID, m.ModuleID)
	}
}

func TestModuleAuth_NotFound(t *testing.T) {
	svc := app.NewModuleAuthService(fakeModules{}, zerolog.Nop())

	_, err := svc.AuthenticateAndCheckProvider("MISSING", "digipos")
	wantAuthError(t, err, app.StageModule, app.CodeNotFound)
}

func TestModuleAuth_Inactive(t *testing.T) {
	m := testModule()
	m.IsActive = false
	svc := app.NewModuleAuthService(fakeModules{m.ModuleID: m}, zerolog.Nop())

	_, err := svc.AuthenticateAndCheckProvider(m.ModuleID, "digipos")
	wantAuthError(t, err, app.StageModule, app.CodeInactive)
}

func TestModuleAuth_ProviderMismatch(t *testing.T) {
	m := testModule()
	svc := app.NewModuleAuthService(fakeModules{m.ModuleID: m}, zerolog.Nop())

	_, err := svc.AuthenticateAndCheckProvider(m.ModuleID, "otherprov")
	wantAuthError(t, err, app.StageModule, app.CodeProviderMismatch)
}
