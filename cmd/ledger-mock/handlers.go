package main

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type transferRequest struct {
	Amount uint64 `json:"amount"`
	To     string `json:"to"`
	Memo   string `json:"memo,omitempty"`
}

type transferRecord struct {
	TransferId string `json:"transfer_id"`
	LedgerId   string `json:"ledger_id"`
	Amount     uint64 `json:"amount"`
	To         string `json:"to"`
	Memo       string `json:"memo,omitempty"`
	BlockIndex uint64 `json:"block_index"`
}

// ledgerMockHandler settles every well-formed transfer against a growing
// in-memory chain, one block per transfer.
type ledgerMockHandler struct {
	mu        sync.Mutex
	nextBlock uint64
	transfers []transferRecord
}

func newLedgerMockHandler() *ledgerMockHandler {
	return &ledgerMockHandler{nextBlock: 1}
}

func (h *ledgerMockHandler) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "invalid amount"})
		return
	}
	if len(req.To) <= 0 {
		c.JSON(http.StatusOK, gin.H{"error": "missing destination"})
		return
	}

	h.mu.Lock()
	record := transferRecord{
		TransferId: uuid.NewString(),
		LedgerId:   c.Param("ledgerId"),
		Amount:     req.Amount,
		To:         req.To,
		Memo:       req.Memo,
		BlockIndex: h.nextBlock,
	}
	h.nextBlock++
	h.transfers = append(h.transfers, record)
	h.mu.Unlock()

	log.WithFields(log.Fields{
		"transfer_id": record.TransferId,
		"ledger_id":   record.LedgerId,
		"amount":      record.Amount,
		"block_index": record.BlockIndex,
	}).Info("transfer settled")

	c.JSON(http.StatusOK, gin.H{"block_index": record.BlockIndex})
}

func (h *ledgerMockHandler) listTransfers(c *gin.Context) {
	ledgerId := c.Param("ledgerId")

	h.mu.Lock()
	defer h.mu.Unlock()

	records := make([]transferRecord, 0, len(h.transfers))
	for _, record := range h.transfers {
		if record.LedgerId == ledgerId {
			records = append(records, record)
		}
	}
	c.JSON(http.StatusOK, gin.H{"transfers": records})
}
