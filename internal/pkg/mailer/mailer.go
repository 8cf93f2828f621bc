package mailer

import (
	"fmt"
	"wastetoworth/internal/pkg/config"
	"wastetoworth/pkg/logger"
	"wastetoworth/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dispatcher 订单/充值通知分发。所有方法都是 fire-and-forget：
// 发送在独立协程执行，失败只记日志，绝不影响事务结果。
type Dispatcher interface {
	OrderCreated(to []string, orderID string, total decimal.Decimal)
	OrderStatusChanged(to string, orderID string, status string, reason string)
	OrderCancelled(to []string, orderID string, reason string)
	DepositCredited(to string, transactionCode string, amount decimal.Decimal)
}

type smtpDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPDispatcher 依据全局配置创建 SMTP 分发器
func NewSMTPDispatcher() Dispatcher {
	cfg := config.GlobalConfig.Mail
	return &smtpDispatcher{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (d *smtpDispatcher) OrderCreated(to []string, orderID string, total decimal.Decimal) {
	subject := "Đơn hàng mới - Waste To Worth"
	body := fmt.Sprintf("Đơn hàng %s vừa được tạo, tổng tiền %s VND.", orderID, total.StringFixed(0))
	d.send(to, subject, body)
}

func (d *smtpDispatcher) OrderStatusChanged(to string, orderID string, status string, reason string) {
	subject := fmt.Sprintf("Cập nhật đơn hàng %s - Waste To Worth", orderID)
	body := fmt.Sprintf("Đơn hàng %s chuyển sang trạng thái %s.", orderID, status)
	if reason != "" {
		body += fmt.Sprintf(" Lý do: %s.", reason)
	}
	d.send([]string{to}, subject, body)
}

func (d *smtpDispatcher) OrderCancelled(to []string, orderID string, reason string) {
	subject := fmt.Sprintf("Đơn hàng %s đã bị hủy - Waste To Worth", orderID)
	body := fmt.Sprintf("Đơn hàng %s đã bị hủy.", orderID)
	if reason != "" {
		body += fmt.Sprintf(" Lý do: %s.", reason)
	}
	d.send(to, subject, body)
}

func (d *smtpDispatcher) DepositCredited(to string, transactionCode string, amount decimal.Decimal) {
	subject := "Nạp tiền thành công - Waste To Worth"
	body := fmt.Sprintf("Giao dịch %s đã được xác nhận, %s VND đã vào ví của bạn.", transactionCode, amount.StringFixed(0))
	d.send([]string{to}, subject, body)
}

func (d *smtpDispatcher) send(to []string, subject, body string) {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	go func() {
		if err := d.dialer.DialAndSend(m); err != nil {
			metrics.GetGlobalCollector().RecordNotifyFailure()
			logger.Log.Error("Failed to send notification mail",
				zap.Strings("to", recipients),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

// NopDispatcher 空实现，用于测试或未配置邮件的环境
type NopDispatcher struct{}

func (NopDispatcher) OrderCreated(to []string, orderID string, total decimal.Decimal)            {}
func (NopDispatcher) OrderStatusChanged(to string, orderID string, status string, reason string) {}
func (NopDispatcher) OrderCancelled(to []string, orderID string, reason string)                  {}
func (NopDispatcher) DepositCredited(to string, transactionCode string, amount decimal.Decimal)  {}
