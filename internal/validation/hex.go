package validation

import (
	"fmt"

	validation "github.com/jellydator/validation"
)

// LowerHex validates that a string is exactly n lowercase hexadecimal characters.
func LowerHex(n int) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			if len(s) != n {
				return false
			}
			for i := 0; i < len(s); i++ {
				c := s[i]
				if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
					return false
				}
			}
			return true
		},
		validation.NewError(
			"validation_lower_hex",
			fmt.Sprintf("must be %d lowercase hexadecimal characters", n),
		),
	)
}
