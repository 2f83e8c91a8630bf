package app

import (
	"context"
	"fmt"
	"time"

	"github.com/artpar/digigate/domain/trx"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// GatewayService runs the full transaction flow: the authorization chain,
// the product/module compatibility check, query synthesis, and dispatch.
type GatewayService struct {
	members  *MemberAuthService
	products *ProductAuthService
	modules  *ModuleAuthService
	builder  *QueryBuilder
	upstream ports.Upstream
	logger   zerolog.Logger
}

// GatewayDeps contains dependencies for GatewayService.
type GatewayDeps struct {
	Members  *MemberAuthService
	Products *ProductAuthService
	Modules  *ModuleAuthService
	Builder  *QueryBuilder
	Upstream ports.Upstream
}

// NewGatewayService creates a gateway service.
func NewGatewayService(deps GatewayDeps, logger zerolog.Logger) *GatewayService {
	return &GatewayService{
		members:  deps.Members,
		products: deps.Products,
		modules:  deps.Modules,
		builder:  deps.Builder,
		upstream: deps.Upstream,
		logger:   logger,
	}
}

// Handle authorizes and executes one transaction. All three authorization
// stages must pass; the order is member, product, module, then the explicit
// check that the module is in the product's permitted list.
func (s *GatewayService) Handle(ctx context.Context, provider string, req trx.Request) (trx.ProviderResponse, error) {
	logger := s.logger.With().
		Str("memberid", req.MemberID).
		Str("productid", req.Product).
		Str("moduleid", req.ModuleID).
		Str("provider", provider).
		Logger()
	logger.Info().Msg("transaction received")

	if _, err := s.members.AuthenticateAndVerify(req); err != nil {
		return trx.ProviderResponse{}, err
	}

	p, err := s.products.AuthenticateAndCheck(req.Product, provider)
	if err != nil {
		return trx.ProviderResponse{}, err
	}

	m, err := s.modules.AuthenticateAndCheckProvider(req.ModuleID, provider)
	if err != nil {
		return trx.ProviderResponse{}, err
	}

	if !p.AllowsModule(m.ModuleID) {
		err := &AuthError{
			Stage:   StageProduct,
			Code:    CodeModuleNotAllowed,
			Message: fmt.Sprintf("module %q is not permitted for product %q", m.ModuleID, p.ProductID),
		}
		logger.Warn().Err(err).Msg("transaction rejected")
		return trx.ProviderResponse{}, err
	}

	call := s.builder.Build(req)
	if call.URL == "" {
		logger.Error().Msg("outbound query has no URL")
		return trx.ProviderResponse{}, ErrQueryBuild
	}

	resp, err := s.upstream.Dispatch(ctx, call, ports.DispatchOptions{
		Timeout:    time.Duration(m.Timeout) * time.Second,
		MaxRetries: m.MaxRetries,
		RetryWait:  time.Duration(m.SecondWait) * time.Second,
		AsJSON:     p.AsJSON == 1,
	})
	if err != nil {
		logger.Error().Err(err).Msg("upstream dispatch failed")
		return trx.ProviderResponse{}, fmt.Errorf("dispatch: %w", err)
	}

	logger.Info().Int("status", resp.Status).Int64("latency_ms", resp.LatencyMs).Msg("transaction completed")
	return resp, nil
}
