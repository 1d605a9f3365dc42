package domain

type DocumentType string

const (
	DocumentDNI      DocumentType = "DNI"
	DocumentCE       DocumentType = "CE"
	DocumentRUC      DocumentType = "RUC"
	DocumentPassport DocumentType = "PASAPORTE"
)

// PaymentSubmission is the card form as entered by the buyer. It is held
// only for the duration of a checkout attempt and never persisted.
type PaymentSubmission struct {
	CardNumber     string       `json:"cardNumber"`
	ExpirationDate string       `json:"expirationDate"`
	CVV            string       `json:"cvv"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
}

// Approval states returned by the payment gateway.
const (
	PaymentStateApproved = "APPROVED"
	PaymentStateDeclined = "DECLINED"
	PaymentStateError    = "ERROR"
	PaymentStatePending  = "PENDING"
)

type TransactionResponse struct {
	OrderID          int64  `json:"orderId"`
	TransactionID    string `json:"transactionId"`
	State            string `json:"state"`
	ResponseCode     string `json:"responseCode"`
	TrazabilityCode  string `json:"trazabilityCode"`
	OperationDate    string `json:"operationDate"`
	NetworkCode      string `json:"paymentNetworkResponseCode"`
	NetworkErrorText string `json:"paymentNetworkResponseErrorMessage"`
}

// PaymentResult is the gateway's verdict on one submission attempt. The
// gateway emits both flat and nested transaction fields; the nested ones
// are authoritative, the flat ones are a fallback for older responses.
type PaymentResult struct {
	Code                string              `json:"code"`
	TransactionalCode   string              `json:"transactionalCode"`
	FlatTransactionID   string              `json:"transactionId"`
	FlatOperationDate   string              `json:"operationDate"`
	TransactionResponse TransactionResponse `json:"transactionResponse"`
}

func (r *PaymentResult) Approved() bool {
	return r.TransactionResponse.State == PaymentStateApproved
}

func (r *PaymentResult) TransactionID() string {
	if r.TransactionResponse.TransactionID != "" {
		return r.TransactionResponse.TransactionID
	}
	return r.FlatTransactionID
}

func (r *PaymentResult) OperationDate() string {
	if r.TransactionResponse.OperationDate != "" {
		return r.TransactionResponse.OperationDate
	}
	return r.FlatOperationDate
}

// CompletionSuccessCode is the code the completion endpoint returns when
// the order is confirmed.
const CompletionSuccessCode = "0"

type CompletionResult struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r *CompletionResult) Success() bool {
	return r.Code == CompletionSuccessCode
}

// Confirmation is the receipt surfaced to the buyer after a successful
// checkout and archived in the receipt repository.
type Confirmation struct {
	TransactionID string  `json:"transactionId"`
	OperationDate string  `json:"operationDate"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Total         float64 `json:"total"`
}
