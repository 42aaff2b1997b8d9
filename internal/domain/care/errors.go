package care

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	// ErrUncertain means the top identification candidate did not clear the
	// confidence threshold. The pending plant must be cleared by the caller.
	ErrUncertain = errors.New("identificação incerta")
	// ErrNoLocation means a registration was attempted without a known fix.
	ErrNoLocation = errors.New("localização exata necessária")
	// ErrNoPlant means a registration was attempted without a pending
	// identification.
	ErrNoPlant = errors.New("nenhuma planta identificada")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }
func IsErrUncertain(err error) bool  { return errors.Is(err, ErrUncertain) }
func IsErrNoLocation(err error) bool { return errors.Is(err, ErrNoLocation) }
func IsErrNoPlant(err error) bool    { return errors.Is(err, ErrNoPlant) }
