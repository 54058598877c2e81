package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/service"
	"github.com/sellerdesk/backoffice/internal/types"
)

type WalletHandler struct {
	service service.WalletService
	log     *logger.Logger
}

func NewWalletHandler(service service.WalletService, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get the tenant wallet
// @Description Get the tenant's wallet, creating it on first access
// @Tags Wallets
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	resp, err := h.service.GetWallet(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Credit the wallet
// @Description Add funds to the tenant's wallet
// @Tags Wallets
// @Accept json
// @Produce json
// @Param operation body dto.WalletOperationRequest true "Credit operation"
// @Success 200 {object} dto.WalletTransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	var req dto.WalletOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Credit(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Debit the wallet
// @Description Deduct funds from the tenant's wallet
// @Tags Wallets
// @Accept json
// @Produce json
// @Param operation body dto.WalletOperationRequest true "Debit operation"
// @Success 200 {object} dto.WalletTransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/debit [post]
func (h *WalletHandler) Debit(c *gin.Context) {
	var req dto.WalletOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Debit(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Adjust the wallet balance
// @Description Apply a signed manual correction to the wallet balance
// @Tags Wallets
// @Accept json
// @Produce json
// @Param adjustment body dto.AdjustWalletRequest true "Adjustment"
// @Success 200 {object} dto.WalletTransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/adjust [post]
func (h *WalletHandler) Adjust(c *gin.Context) {
	var req dto.AdjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Freeze the wallet
// @Tags Wallets
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/freeze [post]
func (h *WalletHandler) Freeze(c *gin.Context) {
	resp, err := h.service.Freeze(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Unfreeze the wallet
// @Tags Wallets
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/unfreeze [post]
func (h *WalletHandler) Unfreeze(c *gin.Context) {
	resp, err := h.service.Unfreeze(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Close the wallet
// @Description Permanently close a wallet with zero balance
// @Tags Wallets
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /wallet/close [post]
func (h *WalletHandler) Close(c *gin.Context) {
	resp, err := h.service.Close(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get wallet transaction history
// @Description List wallet transactions, newest first
// @Tags Wallets
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListWalletTransactionsResponse
// @Router /wallet/transactions [get]
func (h *WalletHandler) GetHistory(c *gin.Context) {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetHistory(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Verify the wallet balance
// @Description Replay the transaction ledger and compare against the stored balance
// @Tags Wallets
// @Produce json
// @Success 200 {object} dto.BalanceVerificationResponse
// @Router /wallet/verify [get]
func (h *WalletHandler) VerifyBalance(c *gin.Context) {
	resp, err := h.service.VerifyBalance(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
