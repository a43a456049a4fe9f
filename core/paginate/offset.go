package paginate

import (
	"fmt"
	"strconv"
)

// OffsetToken renders the next position of an offset-based source as a
// continuation token.
func OffsetToken(next int) string {
	return strconv.Itoa(next)
}

// ParseOffsetToken reverses [OffsetToken]. An empty token is position 0.
func ParseOffsetToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid offset token %q", token)
	}
	return n, nil
}
