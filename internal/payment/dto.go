package payment

// CreatePaymentRequest represents the request to record a payment. The
// sender is the authenticated caller.
type CreatePaymentRequest struct {
	ToUserID int64 `json:"to_user_id" validate:"required,gt=0"`
	Amount   int64 `json:"amount" validate:"required,gt=0"`
}
