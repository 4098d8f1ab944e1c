// AngelaMos | 2026
// errors.go

package tag

import (
	"fmt"

	"github.com/pinco-dev/pinco/internal/core"
)

var (
	ErrTagNotFound    = fmt.Errorf("tag: %w", core.ErrNotFound)
	ErrTagExists      = fmt.Errorf("tag: %w", core.ErrConflict)
	ErrLinkNotFound   = fmt.Errorf("tag link: %w", core.ErrNotFound)
	ErrAlreadyLinked  = fmt.Errorf("tag link: %w", core.ErrConflict)
	ErrInvalidKeyword = fmt.Errorf("tag keyword: %w", core.ErrInvalidInput)
	ErrNoKeywords     = fmt.Errorf("tag filter: %w", core.ErrInvalidInput)
)
