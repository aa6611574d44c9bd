package mockgateway

import (
	"strings"

	"github.com/google/uuid"
)

const (
	coldStartPrefix    = "new_"
	coldStartMaxAmount = 200.0
	businessLimit      = 10000.0
)

// Decide applies the gateway's authorization rules to a payment request.
// Cold-start customers above the cold-start limit are blocked as fraud, and
// amounts at or above the business limit always fail.
func Decide(req *PaymentRequest) *PaymentData {
	data := &PaymentData{
		TransactionID: uuid.NewString(),
		MerchantID:    req.MerchantID,
		Amount:        req.Amount,
		Currency:      req.Currency,
	}

	switch {
	case isColdStart(req.CustomerEmail) && req.Amount > coldStartMaxAmount:
		data.Status = StatusFailed
		data.FailureReason = "Fraud check failed: high value transaction for new customer"
	case req.Amount >= businessLimit:
		data.Status = StatusFailed
		data.FailureReason = "Business logic limit exceeded"
	default:
		data.Status = StatusAuthorized
		data.AuthorizationCode = "AUTH_" + uuid.NewString()[:8]
	}
	return data
}

func isColdStart(email string) bool {
	return email == "" || strings.HasPrefix(email, coldStartPrefix)
}
