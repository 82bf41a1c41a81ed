package login

import "github.com/pkg/errors"

var (
	// ErrInvalidFormData is rendered when the login form cannot be parsed.
	ErrInvalidFormData = errors.New("Datos de formulario inválidos")

	// ErrMissingCredentials is rendered when correo or contraseña is empty.
	ErrMissingCredentials = errors.New("Ingrese su correo y contraseña")
)
