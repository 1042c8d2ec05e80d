package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/enums"
)

// SimulatedPayments accepts every charge and returns a synthetic reference.
// Card settlement against a real provider sits behind the paymentProcessor
// seam; cash on delivery never needed one.
type SimulatedPayments struct{}

func (SimulatedPayments) Charge(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod, amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("charge amount must be positive")
	}
	return fmt.Sprintf("sim_%s_%s", method, uuid.NewString()), nil
}
