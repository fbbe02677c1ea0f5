package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/mintfolio/go-marketplace/service/persist"
)

var signatureRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{130}$`)
var nonceRegex = regexp.MustCompile(`^[0-9]+$`)

// RegisterCustomValidators registers the ledger's custom binding validators
// on a validator engine (usually gin's)
func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("eth_addr", EthValidator)
	v.RegisterValidation("nonce", NonceValidator)
	v.RegisterValidation("signature", SignatureValidator)
	v.RegisterAlias("token_name", "max=200")
	v.RegisterAlias("token_note", "max=1200")
	v.RegisterAlias("collection_name", "max=200")
}

// EthValidator validates that a field is a well-formed Ethereum address
var EthValidator validator.Func = func(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	if addr == "" {
		return false
	}
	return persist.Address(addr).IsValid()
}

// NonceValidator validates that a field looks like a generated auth nonce
var NonceValidator validator.Func = func(fl validator.FieldLevel) bool {
	nonce := fl.Field().String()
	if nonce == "" {
		// nonces are optional in some inputs; required is a separate tag
		return true
	}
	return nonceRegex.MatchString(nonce)
}

// SignatureValidator validates that a field is a 65-byte hex wallet signature
var SignatureValidator validator.Func = func(fl validator.FieldLevel) bool {
	sig := fl.Field().String()
	if sig == "" {
		return true
	}
	return signatureRegex.MatchString(sig)
}
