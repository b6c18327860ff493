package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// IsCardNumber checks a payout destination card number with the Luhn
// algorithm.
func IsCardNumber(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}
