package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Leverage is the signed daily-return multiplier selected by the user.
// Valid values are -10..10 excluding 0.
type Leverage int

// MaxLeverage bounds the accepted leverage magnitude.
const MaxLeverage = 10

// ParseLeverage parses a leverage token such as "+3", "-2" or "5".
// Out-of-range or zero values are rejected rather than silently
// coerced, so a bad option string surfaces as a 400 instead of
// quietly charting 1x.
func ParseLeverage(token string) (Leverage, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, fmt.Errorf("empty leverage token")
	}
	s = strings.TrimPrefix(s, "+")

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid leverage token %q: %w", token, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("leverage must be non-zero")
	}
	if n < -MaxLeverage || n > MaxLeverage {
		return 0, fmt.Errorf("leverage %d out of range [-%d, %d]", n, MaxLeverage, MaxLeverage)
	}
	return Leverage(n), nil
}

// String renders the leverage as a signed token ("+2", "-10").
func (l Leverage) String() string {
	if l > 0 {
		return fmt.Sprintf("+%d", int(l))
	}
	return strconv.Itoa(int(l))
}
