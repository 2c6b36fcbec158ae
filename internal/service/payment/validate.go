package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/tossplace/pkg/errs"
)

var (
	cardNumberRe = regexp.MustCompile(`^[0-9]{13,19}$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3,4}$`)
	phoneRe      = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

func normalizeCard(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
}

// ValidateCard checks the shape of a card number and CVV only; there is
// no issuer or checksum check.
func ValidateCard(number, cvv string) error {
	if !cardNumberRe.MatchString(normalizeCard(number)) {
		return fmt.Errorf("%w: card number must have 13 to 19 digits", errs.ErrValidation)
	}
	if !cvvRe.MatchString(strings.TrimSpace(cvv)) {
		return fmt.Errorf("%w: cvv must have 3 or 4 digits", errs.ErrValidation)
	}
	return nil
}

// ValidateMobile accepts an optional leading + and 9 to 15 digits;
// spaces and dashes are ignored.
func ValidateMobile(phone string) error {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if !phoneRe.MatchString(p) {
		return fmt.Errorf("%w: invalid phone number", errs.ErrValidation)
	}
	return nil
}

func ValidateCash(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", errs.ErrValidation)
	}
	return nil
}
