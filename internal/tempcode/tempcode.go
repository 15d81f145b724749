// Package tempcode generates the short-lived recovery codes mailed to users
// who forgot their password.
package tempcode

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Codes are a uniform draw over [36^4, 36^5), base-36 encoded and
// upper-cased, so they are always exactly 5 characters. The small code space
// is acceptable only because a code is single-use, email-gated, and expires.
const (
	codeMin = 1679616  // 36^4
	codeMax = 60466176 // 36^5
)

// Credential is a recovery code with its expiry.
type Credential struct {
	Code      string
	ExpiresAt time.Time
}

// Generate draws a fresh code valid for ttl from now.
func Generate(ttl time.Duration) Credential {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin))
	if err != nil {
		// crypto/rand only fails if the platform source is broken.
		panic(err)
	}
	return Credential{
		Code:      strings.ToUpper(strconv.FormatInt(n.Int64()+codeMin, 36)),
		ExpiresAt: time.Now().Add(ttl),
	}
}
