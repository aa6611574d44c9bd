package mockgateway

// Envelope mirrors the gateway's {success, message, data} response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RegisterRequest is the user registration body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthData is the payload returned on successful registration.
type AuthData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// MerchantRequest is the merchant registration body.
type MerchantRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	WebhookURL string `json:"webhookUrl"`
}

// PaymentRequest is the payment processing body.
type PaymentRequest struct {
	MerchantID     string  `json:"merchantId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaymentMethod  string  `json:"paymentMethod"`
	CardNumber     string  `json:"cardNumber"`
	ExpiryMonth    string  `json:"expiryMonth"`
	ExpiryYear     string  `json:"expiryYear"`
	CVV            string  `json:"cvv"`
	CardHolderName string  `json:"cardHolderName"`
	CustomerEmail  string  `json:"customerEmail"`
	Description    string  `json:"description,omitempty"`
}

// Transaction statuses returned by the payment endpoint.
const (
	StatusAuthorized = "AUTHORIZED"
	StatusFailed     = "FAILED"
)

// PaymentData is the payload returned by the payment endpoint.
type PaymentData struct {
	TransactionID     string  `json:"transactionId"`
	MerchantID        string  `json:"merchantId"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	AuthorizationCode string  `json:"authorizationCode,omitempty"`
	FailureReason     string  `json:"failureReason,omitempty"`
}

// Endpoint identifies one of the mocked routes for call counting.
type Endpoint string

const (
	EndpointRegister Endpoint = "register"
	EndpointMerchant Endpoint = "merchant"
	EndpointPayment  Endpoint = "payment"
)
