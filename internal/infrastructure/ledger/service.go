// Package ledger implements the outbound transfer client consumed during
// withdrawals. The ledger is an external HTTP service; a transfer either
// settles with a block index or fails, and the core never retries.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/ports"
)

type transferRequest struct {
	Amount uint64 `json:"amount"`
	To     string `json:"to"`
	Memo   string `json:"memo,omitempty"`
}

type transferResponse struct {
	BlockIndex *uint64 `json:"block_index,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type api struct {
	url    string
	client http.Client
}

func NewTransferClient(baseURL string, timeout time.Duration) (ports.TransferClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ledger url: %v", err)
	}
	return &api{
		url:    baseURL,
		client: http.Client{Timeout: timeout},
	}, nil
}

func (l *api) Transfer(
	ctx context.Context, ledgerId string, amount uint64, recipient string, memo string,
) (uint64, error) {
	endpoint := fmt.Sprintf("/v1/ledgers/%s/transfers", url.PathEscape(ledgerId))
	request := transferRequest{
		Amount: amount,
		To:     recipient,
		Memo:   memo,
	}

	var response transferResponse
	if err := l.sendPostRequest(ctx, endpoint, request, &response); err != nil {
		return 0, err
	}

	if response.Error != "" {
		return 0, errors.New(response.Error)
	}
	if response.BlockIndex == nil {
		return 0, fmt.Errorf("ledger response missing block index")
	}
	return *response.BlockIndex, nil
}

func (l *api) sendPostRequest(
	ctx context.Context, endpoint string, requestBody interface{}, response interface{},
) error {
	rawBody, err := json.Marshal(requestBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, l.url+endpoint, bytes.NewBuffer(rawBody),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := l.client.Do(req)
	if err != nil {
		return err
	}

	if err := unmarshalJson(res.Body, &response); err != nil {
		return fmt.Errorf("could not parse ledger response with status %d: %v", res.StatusCode, err)
	}
	return nil
}

func unmarshalJson(body io.ReadCloser, response interface{}) error {
	defer body.Close()

	rawBody, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	return json.Unmarshal(rawBody, &response)
}
