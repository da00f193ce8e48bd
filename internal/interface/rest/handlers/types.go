package handlers

import (
	"net/http"

	"github.com/ChiaveLabs/chiave/internal/core/domain"
	"github.com/gin-gonic/gin"
)

type createSwapRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Hashlock  string `json:"hashlock"`
	Timelock  uint64 `json:"timelock"`
	LedgerId  string `json:"ledger_id"`
}

type withdrawRequest struct {
	SwapId   string `json:"swap_id"`
	Preimage string `json:"preimage"`
}

type refundRequest struct {
	SwapId string `json:"swap_id"`
}

// swapResponse is the envelope shared by all mutating endpoints. Field names
// and message strings are relied upon for compatibility.
type swapResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	SwapId         *string   `json:"swap_id,omitempty"`
	Swap           *swapView `json:"swap,omitempty"`
	TransferResult *uint64   `json:"transfer_result,omitempty"`
}

type swapView struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    uint64  `json:"amount"`
	Hashlock  string  `json:"hashlock"`
	Timelock  uint64  `json:"timelock"`
	Withdrawn bool    `json:"withdrawn"`
	Refunded  bool    `json:"refunded"`
	Preimage  *string `json:"preimage,omitempty"`
	LedgerId  string  `json:"ledger_id"`
}

type swapListItem struct {
	SwapId string   `json:"swap_id"`
	Swap   swapView `json:"swap"`
}

func toSwapView(swap *domain.Swap) *swapView {
	if swap == nil {
		return nil
	}
	return &swapView{
		Sender:    swap.Sender,
		Recipient: swap.Recipient,
		Amount:    swap.Amount,
		Hashlock:  swap.Hashlock,
		Timelock:  swap.Timelock,
		Withdrawn: swap.Withdrawn,
		Refunded:  swap.Refunded,
		Preimage:  swap.Preimage,
		LedgerId:  swap.LedgerId,
	}
}

func listResponse(c *gin.Context, swaps []domain.Swap, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]swapListItem, 0, len(swaps))
	for _, swap := range swaps {
		items = append(items, swapListItem{SwapId: swap.Id, Swap: *toSwapView(&swap)})
	}
	c.JSON(http.StatusOK, gin.H{"swaps": items})
}
