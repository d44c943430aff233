// Package ledger реализует клиент леджер-адаптора — внешнего коллаборатора,
// который проверяет оплату, отправляет транзакцию создания конкурса в
// цепочку, отдаёт баланс аккаунта и курс доплаты за объём данных.
// Криптография и управление кошельками остаются на стороне адаптора.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// Client HTTP-клиент леджер-адаптора.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт клиент с ограниченным таймаутом запросов.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// VerifyPayment просит адаптор проверить платёж на сумму amount.
// Возвращает типизированные ошибки оплаты, состояние запроса при этом
// остаётся на вызывающей стороне.
func (c *Client) VerifyPayment(ctx context.Context, proof string, amount int64) error {
	const op = "ledger.VerifyPayment"

	req, err := c.newRequest(ctx, http.MethodPost, "/payments/verify", verifyPaymentRequest{
		Proof:  proof,
		Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusPaymentRequired:
		return models.ErrInsufficientFunds
	case http.StatusNotFound:
		return models.ErrPaymentNotFound
	default:
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
}

// SubmitContestCreation отправляет транзакцию создания конкурса и
// возвращает идентификатор конкурса в цепочке.
func (c *Client) SubmitContestCreation(ctx context.Context, contest models.ContestCreationRequest) (string, error) {
	const op = "ledger.SubmitContestCreation"

	req, err := c.newRequest(ctx, http.MethodPost, "/contests", contest)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var result submitContestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return result.ContestID, nil
}

// DataFeeRate возвращает стоимость килобайта данных сверх мягких порогов.
func (c *Client) DataFeeRate(ctx context.Context) (int64, error) {
	const op = "ledger.DataFeeRate"

	req, err := c.newRequest(ctx, http.MethodGet, "/rates/data-fee", nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var result dataFeeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result.MillivotesPerKiB, nil
}

// GetBalance возвращает доступный баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, account string) (int64, error) {
	const op = "ledger.GetBalance"

	req, err := c.newRequest(ctx, http.MethodGet, "/balances/"+account, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var result balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result.Amount, nil
}
