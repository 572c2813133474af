package nscp

import "strings"

// Load pattern names used by a default ETABS template
const (
	DeadCase = "DEAD" // D - Dead load
	LiveCase = "LIVE" // L - Live load
)

// Tokens identifying which load combinations carry a load type.
// Both "1.2DEAD+1.6LIVE" and "1.2D + 1.6L + W" carry both.
var (
	DeadTokens = []string{"DEAD", "D "}
	LiveTokens = []string{"LIVE", "L "}
)

// MatchesAny reports whether name contains any of the tokens, ignoring case.
// Empty tokens never match.
func MatchesAny(name string, tokens []string) bool {
	upper := strings.ToUpper(name)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(tok)) {
			return true
		}
	}
	return false
}
