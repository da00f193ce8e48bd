package handlers

import (
	"net/http"

	"github.com/ChiaveLabs/chiave/internal/core/application"
	"github.com/gin-gonic/gin"
)

// CallerKey is the gin context key holding the authenticated caller
// identity, set by the caller middleware.
const CallerKey = "caller"

const (
	msgSwapCreated   = "Swap created successfully"
	msgWithdrawalOk  = "Withdrawal successful"
	msgRefundOk      = "Refund successful"
	msgMissingCaller = "Missing caller identity"
)

type Handler struct {
	appSvc *application.Service
}

func NewHandler(appSvc *application.Service) *Handler {
	return &Handler{appSvc}
}

func (h *Handler) CreateSwap(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, swapResponse{Success: false, Message: err.Error()})
		return
	}

	swapId, swap, err := h.appSvc.CreateSwap(c.Request.Context(), caller, application.CreateSwapRequest{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Hashlock:  req.Hashlock,
		Timelock:  req.Timelock,
		LedgerId:  req.LedgerId,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, swapResponse{
		Success: true,
		Message: msgSwapCreated,
		SwapId:  &swapId,
		Swap:    toSwapView(swap),
	})
}

func (h *Handler) Withdraw(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, swapResponse{Success: false, Message: err.Error()})
		return
	}

	swap, blockIndex, err := h.appSvc.Withdraw(c.Request.Context(), caller, application.WithdrawRequest{
		SwapId:   req.SwapId,
		Preimage: req.Preimage,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, swapResponse{
		Success:        true,
		Message:        msgWithdrawalOk,
		SwapId:         &req.SwapId,
		Swap:           toSwapView(swap),
		TransferResult: &blockIndex,
	})
}

func (h *Handler) Refund(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, swapResponse{Success: false, Message: err.Error()})
		return
	}

	swap, err := h.appSvc.Refund(c.Request.Context(), caller, application.RefundRequest{
		SwapId: req.SwapId,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, swapResponse{
		Success: true,
		Message: msgRefundOk,
		SwapId:  &req.SwapId,
		Swap:    toSwapView(swap),
	})
}

func (h *Handler) caller(c *gin.Context) (string, bool) {
	caller := c.GetString(CallerKey)
	if len(caller) <= 0 {
		c.JSON(http.StatusUnauthorized, swapResponse{Success: false, Message: msgMissingCaller})
		return "", false
	}
	return caller, true
}

func fail(c *gin.Context, err error) {
	status := http.StatusOK
	if !application.IsLifecycleError(err) {
		status = http.StatusInternalServerError
	}
	c.JSON(status, swapResponse{Success: false, Message: err.Error()})
}
