package usecases

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	domainerrors "agro-market.backend/internal/domain/errors"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// optionalString maps blank input to a NULL column.
func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}

// notFoundAs turns a repository ErrNotFound into a 404 with message; other
// errors pass through.
func notFoundAs(err error, message string) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(message)
	}
	return err
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
