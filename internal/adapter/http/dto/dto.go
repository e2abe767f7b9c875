package dto

// TransferRequest is the request body for wallet-to-wallet transfers.
// Amounts are decimal strings to avoid float rounding on the wire.
type TransferRequest struct {
	SenderWalletID   string `json:"sender_wallet_id" binding:"required,uuid"`
	ReceiverWalletID string `json:"receiver_wallet_id" binding:"required,uuid"`
	Amount           string `json:"amount" binding:"required,decimal_amount"`
	PIN              string `json:"pin" binding:"required,max=12"`
	Description      string `json:"description" binding:"max=255"`
}

// DepositRequest is the request body for agent-serviced cash deposits.
type DepositRequest struct {
	AgentID          string `json:"agent_id" binding:"required,uuid"`
	CustomerWalletID string `json:"customer_wallet_id" binding:"required,uuid"`
	Amount           string `json:"amount" binding:"required,decimal_amount"`
	PIN              string `json:"pin" binding:"required,max=12"`
}

// WithdrawRequest is the request body for agent-serviced cash withdrawals.
type WithdrawRequest struct {
	AgentID          string `json:"agent_id" binding:"required,uuid"`
	CustomerWalletID string `json:"customer_wallet_id" binding:"required,uuid"`
	Amount           string `json:"amount" binding:"required,decimal_amount"`
	PIN              string `json:"pin" binding:"required,max=12"`
}

// PaymentRequest is the request body for merchant payments.
type PaymentRequest struct {
	SenderWalletID   string  `json:"sender_wallet_id" binding:"required,uuid"`
	MerchantWalletID string  `json:"merchant_wallet_id" binding:"required,uuid"`
	Amount           string  `json:"amount" binding:"required,decimal_amount"`
	PIN              string  `json:"pin" binding:"required,max=12"`
	LinkID           *string `json:"link_id,omitempty" binding:"omitempty,safe_id"`
}

// TransactionResponse is the wire form of a ledger record.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Reference   string  `json:"reference"`
	Kind        string  `json:"kind"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Fee         string  `json:"fee"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

// BalancesResponse carries the post-operation balances of the touched accounts.
type BalancesResponse struct {
	Sender    *string `json:"sender,omitempty"`
	Receiver  *string `json:"receiver,omitempty"`
	AgentCash *string `json:"agent_cash,omitempty"`
}

// OperationResponse is the success payload of every ledger operation.
type OperationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balances    BalancesResponse    `json:"balances"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	WalletID     string `json:"wallet_id"`
	Balance      string `json:"balance"`
	Currency     string `json:"currency"`
	Active       bool   `json:"active"`
	LastActivity string `json:"last_activity"`
}

// PaymentLinkResponse is the public view of a payment link.
type PaymentLinkResponse struct {
	LinkID       string  `json:"link_id"`
	MerchantID   string  `json:"merchant_id"`
	MerchantName string  `json:"merchant_name,omitempty"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description,omitempty"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Expiry       *string `json:"expiry,omitempty"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
