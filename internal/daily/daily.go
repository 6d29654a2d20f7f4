// internal/daily/daily.go
//
// Deterministic randomness for the daily ladder: every player asking for a
// puzzle of the same length on the same UTC date gets the same pair.
//
// Draw k for date D is HMAC-SHA256(salt, "D|k") reduced modulo n.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Source returns an intn-style function whose successive draws are fixed
// for a given date and salt. It is not safe for concurrent use.
func Source(date time.Time, salt string) func(n int) int {
	dk := DateKey(date)
	counter := 0
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		h := hmac.New(sha256.New, []byte(salt))
		h.Write([]byte(dk + "|" + strconv.Itoa(counter)))
		counter++
		sum := h.Sum(nil)
		// first 8 bytes as uint64 for modulus distribution
		v := binary.BigEndian.Uint64(sum[:8])
		return int(v % uint64(n))
	}
}
