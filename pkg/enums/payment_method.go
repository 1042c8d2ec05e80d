package enums

import "fmt"

// PaymentMethod is the checkout payment selection. Settlement itself is
// simulated; the value is recorded on the order for reporting only.
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodCashOnDelivery,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
