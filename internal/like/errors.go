// AngelaMos | 2026
// errors.go

package like

import (
	"errors"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
)

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}

func asPinError(err error) error {
	if isNotFound(err) {
		return pin.ErrPinNotFound
	}
	return err
}
