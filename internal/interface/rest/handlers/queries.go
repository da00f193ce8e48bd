package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSwap(c *gin.Context) {
	swap, err := h.appSvc.GetSwap(c.Request.Context(), c.Param("id"))
	if err != nil {
		// mirror the optional semantics of the read surface: absent is
		// null, not an error envelope
		c.JSON(http.StatusOK, gin.H{"swap": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swap": toSwapView(swap)})
}

func (h *Handler) ListSwaps(c *gin.Context) {
	ctx := c.Request.Context()

	if sender := c.Query("sender"); len(sender) > 0 {
		swaps, err := h.appSvc.GetSwapsBySender(ctx, sender)
		listResponse(c, swaps, err)
		return
	}
	if recipient := c.Query("recipient"); len(recipient) > 0 {
		swaps, err := h.appSvc.GetSwapsByRecipient(ctx, recipient)
		listResponse(c, swaps, err)
		return
	}

	swaps, err := h.appSvc.GetAllSwaps(ctx)
	listResponse(c, swaps, err)
}

func (h *Handler) ActiveSwaps(c *gin.Context) {
	swaps, err := h.appSvc.GetActiveSwaps(c.Request.Context())
	listResponse(c, swaps, err)
}

func (h *Handler) ExpiredSwaps(c *gin.Context) {
	swaps, err := h.appSvc.GetExpiredSwaps(c.Request.Context())
	listResponse(c, swaps, err)
}

func (h *Handler) SwapCount(c *gin.Context) {
	count, err := h.appSvc.GetSwapCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) HashPreimage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hashlock": h.appSvc.HashPreimage(c.Query("preimage")),
	})
}

func (h *Handler) VerifyPreimage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid": h.appSvc.VerifyPreimageHash(c.Query("preimage"), c.Query("hashlock")),
	})
}

func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": h.appSvc.BuildInfo.Version,
		"commit":  h.appSvc.BuildInfo.Commit,
		"date":    h.appSvc.BuildInfo.Date,
	})
}

func (h *Handler) Caller(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"caller": c.GetString(CallerKey)})
}

func (h *Handler) CurrentTime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"time": h.appSvc.CurrentTime()})
}
