package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// JoinRequest is the credential pair presented on join.
// The credential is a placeholder gate, not a security system: it only has
// to be present, unless a stricter Authenticator policy is configured.
type JoinRequest struct {
	Username   string `validate:"required,min=1,max=32"`
	Credential string `validate:"required"`
}

// ValidateJoin checks the structural constraints of a join request.
func ValidateJoin(req JoinRequest) error {
	return validate.Struct(req)
}
