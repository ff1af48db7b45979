package models

const (
	VehicleAvailable   = "AVAILABLE"
	VehicleUnavailable = "UNAVAILABLE"
)

const (
	TransactionInReview  = "IN_REVIEW"
	TransactionApproved  = "APPROVED"
	TransactionCancelled = "CANCELLED"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

// PaymentMethods is the fixed set offered on the payment screen. The strings
// are wire values, not labels.
var PaymentMethods = []string{
	"Credit/Debit cards",
	"ATM/Bank transfer",
	"E-wallet",
}

// ValidPaymentMethod reports whether m is one of the offered methods.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

const (
	// DefaultSessionTTL lifetime of a stored session in Redis, seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// DefaultPaginationSize vehicles per page in the browse list.
	DefaultPaginationSize = 8

	// RateLimitMessages messages allowed per window.
	RateLimitMessages = 20

	// RateLimitWindow rate limit window, seconds.
	RateLimitWindow = 60
)
