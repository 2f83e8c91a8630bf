// Package app provides application services that orchestrate domain logic.
package app

import (
	"errors"
	"fmt"
)

// Stage identifies which step of the authorization chain rejected a request.
type Stage string

const (
	StageMember  Stage = "member"
	StageProduct Stage = "product"
	StageModule  Stage = "module"
)

// AuthCode is a distinct, user-surfaceable rejection condition.
type AuthCode string

const (
	CodeNotFound            AuthCode = "not_found"
	CodeInactive            AuthCode = "inactive"
	CodeProviderMismatch    AuthCode = "provider_mismatch"
	CodeNoModulesConfigured AuthCode = "no_modules_configured"
	CodeSignatureRequired   AuthCode = "signature_required"
	CodeInvalidSignature    AuthCode = "invalid_signature"
	CodeInvalidCredentials  AuthCode = "invalid_credentials"
	CodeModuleNotAllowed    AuthCode = "module_not_allowed"
)

// AuthError is a typed authorization rejection. It identifies which stage
// failed and why, and never carries credential values.
type AuthError struct {
	Stage   Stage
	Code    AuthCode
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth: %s: %s", e.Stage, e.Code, e.Message)
}

// AsAuthError unwraps err into an *AuthError if it is one.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// ErrQueryBuild marks a transaction whose outbound call could not be
// synthesized (empty URL from the query builder).
var ErrQueryBuild = errors.New("outbound query build failed")
