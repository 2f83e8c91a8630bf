// Package trx provides transaction request/response value types for the
// gateway layer. This is extracted from HTTP and passed to pure functions.
package trx

import (
	"net/url"
	"strings"
)

// Request represents an inbound transaction request (value type).
type Request struct {
	MemberID string
	Dest     string
	Product  string
	ModuleID string

	// Optional fields
	TrxID    string
	RefID    string
	PIN      string
	Password string
	Sign     string
}

// Attr resolves a named attribute for "request.<name>" template references.
// Returns false for unknown names. Credential fields are deliberately not
// resolvable: templates never pull secrets from the untrusted request.
func (r Request) Attr(name string) (string, bool) {
	switch name {
	case "memberid":
		return r.MemberID, true
	case "dest":
		return r.Dest, true
	case "product":
		return r.Product, true
	case "moduleid":
		return r.ModuleID, true
	case "trxid":
		return r.TrxID, true
	case "refid":
		return r.RefID, true
	default:
		return "", false
	}
}

// ParamValue is one resolved outbound parameter. Order matters on the wire, so
// parameters travel as a slice rather than a map.
type ParamValue struct {
	Key   string
	Value string
}

// OutboundCall describes the synthesized upstream call (value type).
// An empty URL means the build failed; callers must check before dispatch.
type OutboundCall struct {
	Method string
	URL    string
	Params []ParamValue
}

// Get returns the value of the named parameter, or "" if absent.
func (c OutboundCall) Get(key string) string {
	for _, p := range c.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// EncodeQuery encodes the parameters in template order.
func (c OutboundCall) EncodeQuery() string {
	var b strings.Builder
	for i, p := range c.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// ProviderResponse is the upstream provider's reply (value type).
type ProviderResponse struct {
	Status    int
	Body      []byte
	LatencyMs int64
}

// ErrorResponse represents an error to return to the client (value type).
type ErrorResponse struct {
	Status  int
	Code    string
	Message string
	Stage   string
}

// Common error responses for failures outside the authorization chain.
var (
	ErrBadRequest = ErrorResponse{
		Status:  400,
		Code:    "bad_request",
		Message: "Request is missing required fields",
	}
	ErrBuildFailed = ErrorResponse{
		Status:  502,
		Code:    "build_failed",
		Message: "Outbound query could not be built",
	}
	ErrUpstreamError = ErrorResponse{
		Status:  502,
		Code:    "upstream_error",
		Message: "Upstream provider unavailable",
	}
)
