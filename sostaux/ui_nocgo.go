//go:build tinygo || !cgo

package sostaux

import "errors"

func ui(cfg UIConfig, draw DrawFunc) error {
	return errors.New("require cgo for UI rendering")
}
