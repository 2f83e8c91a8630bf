package app

import (
	"fmt"

	"github.com/artpar/digigate/domain/product"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// ProductAuthService authorizes products: existence, active flag, provider
// match, and a non-empty permitted-module list.
type ProductAuthService struct {
	products ports.ProductSource
	logger   zerolog.Logger
}

// NewProductAuthService creates a product authorization service.
func NewProductAuthService(products ports.ProductSource, logger zerolog.Logger) *ProductAuthService {
	return &ProductAuthService{products: products, logger: logger}
}

// AuthenticateAndCheck resolves the product, checks the active flag, the
// provider, and that at least one module is configured to serve it.
func (s *ProductAuthService) AuthenticateAndCheck(productID, provider string) (product.Product, error) {
	logger := s.logger.With().Str("productid", productID).Logger()
	logger.Info().Msg("authenticating product")

	p, ok := s.products.GetByID(productID)
	if !ok {
		err := &AuthError{
			Stage:   StageProduct,
			Code:    CodeNotFound,
			Message: fmt.Sprintf("product %q not found", productID),
		}
		logger.Warn().Err(err).Msg("product authentication failed")
		return product.Product{}, err
	}
	if !p.Active() {
		err := &AuthError{
			Stage:   StageProduct,
			Code:    CodeInactive,
			Message: "product is not active",
		}
		logger.Warn().Err(err).Msg("product authentication failed")
		return product.Product{}, err
	}
	if p.Provider != provider {
		err := &AuthError{
			Stage:   StageProduct,
			Code:    CodeProviderMismatch,
			Message: fmt.Sprintf("product provider %q does not match %q", p.Provider, provider),
		}
		logger.Warn().Err(err).Msg("product authentication failed")
		return product.Product{}, err
	}
	if len(p.ListModules) == 0 {
		err := &AuthError{
			Stage:   StageProduct,
			Code:    CodeNoModulesConfigured,
			Message: "product has no modules configured",
		}
		logger.Warn().Err(err).Msg("product authentication failed")
		return product.Product{}, err
	}

	logger.Info().Msg("product authenticated")
	return p, nil
}
