package auth

import (
	"context"
	"fmt"

	"github.com/agriferti/agriferti-backend/pkg/logger"
)

// logSender writes OTP codes to the structured log instead of an SMS gateway.
// Suitable for dev and test environments only.
type logSender struct {
	logg *logger.Logger
}

// NewLogSender returns an OTPSender that logs codes rather than sending them.
func NewLogSender(logg *logger.Logger) OTPSender {
	return &logSender{logg: logg}
}

func (s *logSender) SendOTP(ctx context.Context, phoneNumber, code string) error {
	if s.logg == nil {
		return fmt.Errorf("log sender requires a logger")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"phone_number": phoneNumber,
		"otp_code":     code,
	})
	s.logg.Info(ctx, "otp.issued")
	return nil
}
