package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewPaymentReference builds a globally unique gateway reference in the form
// {prefix}_{unix-timestamp}_{random-hex}. The random suffix comes from
// crypto/rand so two orders created in the same second cannot collide; the
// database unique constraint backs this up as a hard invariant.
func NewPaymentReference(prefix string) string {
	if prefix == "" {
		prefix = "kasi"
	}
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to take
		// payments; surface it loudly.
		panic(fmt.Sprintf("payment reference entropy unavailable: %v", err))
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), hex.EncodeToString(buf))
}
