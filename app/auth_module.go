package app

import (
	"fmt"

	"github.com/artpar/digigate/domain/module"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// ModuleAuthService authorizes modules: existence, active flag, provider match.
type ModuleAuthService struct {
	modules ports.ModuleSource
	logger  zerolog.Logger
}

// NewModuleAuthService creates a module authorization service.
func NewModuleAuthService(modules ports.ModuleSource, logger zerolog.Logger) *ModuleAuthService {
	return &ModuleAuthService{modules: modules, logger: logger}
}

// AuthenticateAndCheckProvider resolves the module, checks the active flag,
// and requires the module to belong to the expected provider.
func (s *ModuleAuthService) AuthenticateAndCheckProvider(moduleID, provider string) (module.Module, error) {
	logger := s.logger.With().Str("moduleid", moduleID).Logger()
	logger.Info().Msg("authenticating module")

	m, ok := s.modules.GetByID(moduleID)
	if !ok {
		err := &AuthError{
			Stage:   StageModule,
			Code:    CodeNotFound,
			Message: fmt.Sprintf("module %q not found", moduleID),
		}
		logger.Warn().Err(err).Msg("module authentication failed")
		return module.Module{}, err
	}
	if !m.Active() {
		err := &AuthError{
			Stage:   StageModule,
			Code:    CodeInactive,
			Message: "module is not active",
		}
		logger.Warn().Err(err).Msg("module authentication failed")
		return module.Module{}, err
	}
	if m.Provider != provider {
		err := &AuthError{
			Stage:   StageModule,
			Code:    CodeProviderMismatch,
			Message: fmt.Sprintf("module provider %q does not match %q", m.Provider, provider),
		}
		logger.Warn().Err(err).Msg("module authentication failed")
		return module.Module{}, err
	}

	logger.Info().Msg("module authenticated")
	return m, nil
}
