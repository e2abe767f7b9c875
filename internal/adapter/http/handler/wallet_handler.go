package handler

import (
	"time"

	"wallet-ledger-engine/internal/adapter/http/dto"
	"wallet-ledger-engine/internal/adapter/http/middleware"
	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/apperror"
	"wallet-ledger-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletHandler handles the ledger operation and wallet query endpoints.
type WalletHandler struct {
	ledgerSvc    ports.LedgerService
	reportingSvc ports.ReportingService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService, reportingSvc ports.ReportingService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc, reportingSvc: reportingSvc}
}

// Transfer handles POST /api/v1/wallet/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SenderWalletID:   uuid.MustParse(req.SenderWalletID),
		ReceiverWalletID: uuid.MustParse(req.ReceiverWalletID),
		Amount:           req.Amount,
		PIN:              req.PIN,
		Description:      req.Description,
		Meta:             requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toOperationResponse(result))
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		AgentID:          uuid.MustParse(req.AgentID),
		CustomerWalletID: uuid.MustParse(req.CustomerWalletID),
		Amount:           req.Amount,
		PIN:              req.PIN,
		Meta:             requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toOperationResponse(result))
}

// Withdraw handles POST /api/v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		AgentID:          uuid.MustParse(req.AgentID),
		CustomerWalletID: uuid.MustParse(req.CustomerWalletID),
		Amount:           req.Amount,
		PIN:              req.PIN,
		Meta:             requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toOperationResponse(result))
}

// Pay handles POST /api/v1/wallet/payment.
func (h *WalletHandler) Pay(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledgerSvc.PayLink(c.Request.Context(), ports.PaymentRequest{
		SenderWalletID:   uuid.MustParse(req.SenderWalletID),
		MerchantWalletID: uuid.MustParse(req.MerchantWalletID),
		Amount:           req.Amount,
		PIN:              req.PIN,
		LinkID:           req.LinkID,
		Meta:             requestMeta(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toOperationResponse(result))
}

// GetBalance handles GET /api/v1/wallet/:walletID/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("walletID"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	wallet, err := h.reportingSvc.GetWalletBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletBalanceResponse{
		WalletID:     wallet.ID.String(),
		Balance:      wallet.Balance.String(),
		Currency:     wallet.Currency,
		Active:       wallet.Active,
		LastActivity: wallet.LastActivity.Format(time.RFC3339),
	})
}

// ListTransactions handles GET /api/v1/wallet/:walletID/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("walletID"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	params := ports.TransactionListParams{WalletID: walletID}
	if kind := c.Query("kind"); kind != "" {
		k := domain.TransactionKind(kind)
		params.Kind = &k
	}
	if status := c.Query("status"); status != "" {
		s := domain.TransactionStatus(status)
		params.Status = &s
	}
	params.Page = queryInt(c, "page", 1)
	params.PageSize = queryInt(c, "page_size", 20)

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// requestMeta extracts actor and client context for the audit trail.
func requestMeta(c *gin.Context) ports.RequestMeta {
	meta := ports.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if v, ok := c.Get(middleware.CtxProfileID); ok {
		if id, ok := v.(uuid.UUID); ok {
			meta.ActorProfileID = &id
		}
	}
	return meta
}

func queryInt(c *gin.Context, key string, def int) int {
	v := def
	if raw := c.Query(key); raw != "" {
		var parsed int
		for _, ch := range raw {
			if ch < '0' || ch > '9' {
				return def
			}
			parsed = parsed*10 + int(ch-'0')
		}
		v = parsed
	}
	return v
}

// toOperationResponse converts a ledger result to its wire form.
func toOperationResponse(res *ports.LedgerResult) dto.OperationResponse {
	return dto.OperationResponse{
		Transaction: toTransactionResponse(res.Transaction),
		Balances: dto.BalancesResponse{
			Sender:    decimalString(res.Balances.Sender),
			Receiver:  decimalString(res.Balances.Receiver),
			AgentCash: decimalString(res.Balances.AgentCash),
		},
	}
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:        tx.ID.String(),
		Reference: tx.Reference,
		Kind:      string(tx.Kind),
		Amount:    tx.Amount.String(),
		Currency:  tx.Currency,
		Fee:       tx.Fee.String(),
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ProcessedAt != nil {
		s := tx.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &s
	}
	return resp
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
