package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/caet-labs/tokengate/pkg/utils"
	"go.uber.org/zap"
)

// HandleTxs proxies the token transfer history of ?address= starting at ?startblock=.
func (c *Controller) HandleTxs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	address := strings.TrimSpace(q.Get("address"))
	if address == "" {
		c.writeError(w, http.StatusBadRequest, "address required")
		return
	}
	startBlock := utils.Default(q.Get("startblock"), "0")

	records, err := c.Transfers.TokenTransfers(r.Context(), address, startBlock)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "fetch failed"
		}
		c.App.Logger.Error("Token transfer lookup failed",
			zap.String("address", address),
			zap.String("startblock", startBlock),
			zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, msg)
		return
	}

	if records == nil {
		records = []json.RawMessage{}
	}
	c.writeJSON(w, http.StatusOK, records)
}
