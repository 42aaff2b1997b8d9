package profile

import (
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
)

// User-facing auth messages, fixed per error class. Everything outside the
// known classes collapses to the generic message.
const (
	MsgInvalidName    = "Por favor, insira um nome válido."
	MsgEmailInUse     = "Este email já está em uso."
	MsgInvalidEmail   = "Email inválido."
	MsgWeakPassword   = "A senha precisa ter pelo menos 6 caracteres."
	MsgBadCredentials = "Email ou senha incorretos."
	MsgGeneric        = "Ocorreu um erro. Tente novamente."
)

func mapAuthError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %s", ErrEmailInUse, MsgEmailInUse)
	case auth.IsUserNotFound(err):
		return fmt.Errorf("%w: %s", ErrBadRequest, MsgBadCredentials)
	case strings.Contains(err.Error(), "password"):
		return fmt.Errorf("%w: %s", ErrBadRequest, MsgWeakPassword)
	case strings.Contains(err.Error(), "email"):
		return fmt.Errorf("%w: %s", ErrBadRequest, MsgInvalidEmail)
	default:
		return fmt.Errorf("%w: %s", ErrBadRequest, MsgGeneric)
	}
}
