package app

import (
	"strings"

	"github.com/artpar/digigate/domain/module"
	"github.com/artpar/digigate/domain/trx"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// Template source prefixes. Anything else is a literal constant.
const (
	prefixModules = "modules."
	prefixRequest = "request."
)

// QueryBuilder composes a product's parameter templates with a module's
// credentials and the inbound request into a concrete outbound call.
//
// Build never fails: if the product or module cannot be resolved the URL
// degrades to the empty string and the parameter set may be incomplete.
// Callers must treat an empty URL as a build failure before dispatch.
type QueryBuilder struct {
	products ports.ProductSource
	modules  ports.ModuleSource
	idGen    ports.IDGenerator
	logger   zerolog.Logger
}

// NewQueryBuilder creates a query builder.
func NewQueryBuilder(products ports.ProductSource, modules ports.ModuleSource, idGen ports.IDGenerator, logger zerolog.Logger) *QueryBuilder {
	return &QueryBuilder{products: products, modules: modules, idGen: idGen, logger: logger}
}

// Build synthesizes the outbound method, URL, and ordered parameter set.
// Required template entries are always included, even when they resolve
// empty; optional entries resolving empty are omitted.
func (b *QueryBuilder) Build(req trx.Request) trx.OutboundCall {
	logger := b.logger.With().
		Str("productid", req.Product).
		Str("moduleid", req.ModuleID).
		Logger()
	logger.Info().Msg("building outbound query")

	p, haveProduct := b.products.GetByID(req.Product)
	m, haveModule := b.modules.GetByID(req.ModuleID)

	var call trx.OutboundCall
	if haveProduct {
		call.Method = p.Method
		for _, tpl := range p.RequiredParams {
			call.Params = append(call.Params, trx.ParamValue{
				Key:   tpl.Name,
				Value: b.resolve(tpl.Source, m, haveModule, req),
			})
		}
		for _, tpl := range p.OptionalParams {
			v := b.resolve(tpl.Source, m, haveModule, req)
			if v == "" {
				continue
			}
			call.Params = append(call.Params, trx.ParamValue{Key: tpl.Name, Value: v})
		}
	}

	if haveProduct && haveModule {
		call.URL = m.BaseURL + p.APIPath
	}

	keys := make([]string, len(call.Params))
	for i, pv := range call.Params {
		keys[i] = pv.Key
	}
	logger.Info().
		Str("method", call.Method).
		Str("url", call.URL).
		Strs("params", keys).
		Msg("outbound query built")
	return call
}

// resolve maps one template source expression to its value.
func (b *QueryBuilder) resolve(source string, m module.Module, haveModule bool, req trx.Request) string {
	switch {
	case strings.HasPrefix(source, prefixModules):
		if !haveModule {
			return ""
		}
		v, _ := m.Attr(strings.TrimPrefix(source, prefixModules))
		return v

	case strings.HasPrefix(source, prefixRequest):
		attr := strings.TrimPrefix(source, prefixRequest)
		v, _ := req.Attr(attr)
		// Every outbound call carries a transaction ID even when the
		// caller omitted one.
		if attr == "trxid" && v == "" {
			return b.idGen.New()
		}
		return v

	default:
		return source
	}
}
