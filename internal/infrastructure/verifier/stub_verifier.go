package verifier

import (
	"context"

	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/pkg/logger"
)

// StubVerifier stands in for a bank or wallet callback. It answers every
// verification with Accept.
type StubVerifier struct {
	Accept bool
}

func NewStubVerifier(accept bool) *StubVerifier {
	return &StubVerifier{Accept: accept}
}

func (v *StubVerifier) Verify(ctx context.Context, intent *entities.PaymentIntent, input entities.ConfirmPaymentInput) (bool, error) {
	logger.Debug(ctx, "Stub payment verification",
		zap.String("intent_id", intent.ID.String()),
		zap.String("method", string(intent.Method)),
		zap.Bool("has_code", input.VerificationCode != ""),
		zap.Bool("accepted", v.Accept),
	)
	return v.Accept, nil
}
