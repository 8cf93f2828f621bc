package service

import (
	"strings"
	"wastetoworth/internal/pkg/sepay"

	"github.com/shopspring/decimal"
)

// fillerChar 充值码里的占位符，生成端用它分隔段落，
// 但银行备注会把它吃掉，所以匹配前两边都要剥掉
const fillerChar = "_"

// matchesFeed 在网关流水里查找与本地充值记录对应的转账：
// 备注需包含净化后的充值码，且到账金额四舍五入后与登记金额一致
func matchesFeed(transactionCode string, amount decimal.Decimal, feed []sepay.Transaction) bool {
	code := sanitize(transactionCode)
	if code == "" {
		return false
	}

	for _, t := range feed {
		memo := sanitize(t.Memo)
		if !strings.Contains(memo, code) {
			continue
		}

		parsed, err := decimal.NewFromString(t.AmountIn)
		if err != nil {
			continue
		}
		if parsed.Round(0).Equal(amount.Round(0)) {
			return true
		}
	}
	return false
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, fillerChar, "")
}
