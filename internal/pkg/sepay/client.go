package sepay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"wastetoworth/internal/pkg/config"
)

// Transaction 网关侧到账流水
type Transaction struct {
	Memo     string // 转账备注，和本地充值码匹配
	AmountIn string // 到账金额（网关以字符串返回）
}

// Client 支付网关客户端，仅消费"最近交易列表"一个操作
type Client interface {
	ListRecentTransactions(ctx context.Context) ([]Transaction, error)
}

type httpClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewClient 依据全局配置创建 SePay 客户端
func NewClient() Client {
	cfg := config.GlobalConfig.Sepay
	return &httpClient{
		endpoint: cfg.Endpoint,
		token:    cfg.APIToken,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// sepay 返回格式: {"transactions": [{"transaction_content": "...", "amount_in": "500000.00"}, ...]}
type listResponse struct {
	Transactions []struct {
		TransactionContent string `json:"transaction_content"`
		AmountIn           string `json:"amount_in"`
	} `json:"transactions"`
}

func (c *httpClient) ListRecentTransactions(ctx context.Context) ([]Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sepay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sepay responded %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("sepay decode: %w", err)
	}

	out := make([]Transaction, 0, len(body.Transactions))
	for _, t := range body.Transactions {
		out = append(out, Transaction{
			Memo:     t.TransactionContent,
			AmountIn: t.AmountIn,
		})
	}
	return out, nil
}
