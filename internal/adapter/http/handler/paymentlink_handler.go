package handler

import (
	"time"

	"wallet-ledger-engine/internal/adapter/http/dto"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentLinkHandler handles public payment link lookups.
type PaymentLinkHandler struct {
	linkSvc ports.PaymentLinkService
}

// NewPaymentLinkHandler creates a new PaymentLinkHandler.
func NewPaymentLinkHandler(linkSvc ports.PaymentLinkService) *PaymentLinkHandler {
	return &PaymentLinkHandler{linkSvc: linkSvc}
}

// GetLink handles GET /api/v1/payment-links/:linkID. The lookup is
// public: a customer opening a link is not authenticated yet.
func (h *PaymentLinkHandler) GetLink(c *gin.Context) {
	view, err := h.linkSvc.GetByLinkID(c.Request.Context(), c.Param("linkID"))
	if err != nil {
		response.Error(c, err)
		return
	}

	link := view.Link
	resp := dto.PaymentLinkResponse{
		LinkID:      link.LinkID,
		MerchantID:  link.MerchantID.String(),
		Amount:      link.Amount.String(),
		Currency:    link.Currency,
		Description: link.Description,
		Type:        string(link.Type),
		Status:      string(link.Status),
	}
	if view.Merchant != nil {
		resp.MerchantName = view.Merchant.Name
	}
	if link.Expiry != nil {
		s := link.Expiry.Format(time.RFC3339)
		resp.Expiry = &s
	}
	response.OK(c, resp)
}
