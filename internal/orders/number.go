package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const orderNumberPrefix = "DL"

// GenerateOrderNumber mints a human-readable, globally unique order number:
// DL-<yyyymmdd>-<8 hex chars>. Uniqueness is ultimately enforced by the
// database constraint; a collision surfaces as a conflict, not a retry loop.
func GenerateOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("order number entropy: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s",
		orderNumberPrefix,
		now.UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf)),
	), nil
}
