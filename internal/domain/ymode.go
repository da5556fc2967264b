package domain

import "fmt"

// YMode selects the value-to-pixel transform for the Y axis.
type YMode string

// Recognized Y-scale tokens.
const (
	YModeLinear  YMode = "linear"
	YModeLog     YMode = "log"
	YModePercent YMode = "percent"
)

// ParseYMode validates a Y-scale token. An empty token defaults to linear.
func ParseYMode(s string) (YMode, error) {
	switch YMode(s) {
	case YModeLinear, YModeLog, YModePercent:
		return YMode(s), nil
	case "":
		return YModeLinear, nil
	}
	return "", fmt.Errorf("unrecognized y-scale token %q", s)
}
