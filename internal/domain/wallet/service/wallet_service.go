package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	userRepo "wastetoworth/internal/domain/user/repository"
	"wastetoworth/internal/domain/wallet/model"
	"wastetoworth/internal/domain/wallet/repository"
	"wastetoworth/internal/pkg/config"
	"wastetoworth/internal/pkg/mailer"
	"wastetoworth/internal/pkg/sepay"
	"wastetoworth/pkg/logger"
	"wastetoworth/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrDuplicateDeposit = errors.New("deposit with this transaction code already requested")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// WalletDetail 钱包及其流水
type WalletDetail struct {
	model.Wallet
	Transactions []model.WalletTransaction `json:"transactions"`
}

type WalletService interface {
	GetWalletByUserID(userID string) (*WalletDetail, error)
	GetTransactions(userID string) ([]model.WalletTransaction, error)
	// RequestDeposit 登记一笔待确认充值，余额在对账匹配前不变
	RequestDeposit(userID string, amount decimal.Decimal, transactionCode string) error
	// ReconcilePending 执行一轮对账周期，由调度器按固定间隔调用
	ReconcilePending(ctx context.Context) error
}

type walletService struct {
	repo     repository.WalletRepository
	users    userRepo.UserRepository
	gateway  sepay.Client
	notifier mailer.Dispatcher
	rdb      *redis.Client
	expiry   time.Duration
}

func NewWalletService(
	repo repository.WalletRepository,
	users userRepo.UserRepository,
	gateway sepay.Client,
	notifier mailer.Dispatcher,
	rdb *redis.Client,
) WalletService {
	return &walletService{
		repo:     repo,
		users:    users,
		gateway:  gateway,
		notifier: notifier,
		rdb:      rdb,
		expiry:   time.Duration(config.GlobalConfig.Reconciler.ExpiryWindow) * time.Minute,
	}
}

func (s *walletService) GetWalletByUserID(userID string) (*WalletDetail, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	txns, err := s.repo.ListTransactions(wallet.ID)
	if err != nil {
		return nil, err
	}

	return &WalletDetail{Wallet: *wallet, Transactions: txns}, nil
}

func (s *walletService) GetTransactions(userID string) ([]model.WalletTransaction, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return s.repo.ListTransactions(wallet.ID)
}

func (s *walletService) RequestDeposit(userID string, amount decimal.Decimal, transactionCode string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWalletNotFound
		}
		return err
	}

	// 同一个充值码重复提交会导致一笔转账被记两次，
	// 用 Redis SETNX 在过期窗口内拦截（未配置 Redis 的环境跳过）
	if s.rdb != nil {
		key := fmt.Sprintf("wallet:deposit:code:%s", transactionCode)
		ok, err := s.rdb.SetNX(context.Background(), key, userID, s.expiry).Result()
		if err != nil {
			logger.Log.Warn("Deposit dedup check failed, continuing without guard", zap.Error(err))
		} else if !ok {
			return ErrDuplicateDeposit
		}
	}

	return s.repo.Transact(func(tx *gorm.DB) error {
		return s.repo.CreateTransaction(tx, &model.WalletTransaction{
			WalletID:        wallet.ID,
			Amount:          amount,
			TransactionCode: transactionCode,
			Status:          model.TransactionPending,
		})
	})
}

// ReconcilePending 对账一轮：
//  1. 取出全部 PENDING 流水
//  2. 逐笔调用网关的最近交易列表，按备注+金额匹配
//  3. 匹配成功：同一事务内 PENDING->DONE 并入账
//  4. 未匹配且超过过期窗口：直接删除
//
// 网关调用失败按单笔捕获，只记日志，下一轮重试，不阻塞同周期其余流水。
func (s *walletService) ReconcilePending(ctx context.Context) error {
	start := time.Now()
	collector := metrics.GetGlobalCollector()

	pending, err := s.repo.ListPending()
	if err != nil {
		return fmt.Errorf("list pending deposits: %w", err)
	}
	collector.SetPendingDeposits(len(pending))

	for _, txn := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		feed, err := s.gateway.ListRecentTransactions(ctx)
		if err != nil {
			collector.RecordGatewayError()
			logger.Log.Warn("Gateway unavailable, deposit left pending",
				zap.String("transaction_id", txn.ID),
				zap.Error(err),
			)
			continue
		}

		if matchesFeed(txn.TransactionCode, txn.Amount, feed) {
			if err := s.creditMatched(txn); err != nil {
				logger.Log.Error("Failed to credit matched deposit",
					zap.String("transaction_id", txn.ID),
					zap.Error(err),
				)
			}
			continue
		}

		// 超过过期窗口仍未匹配，视为放弃的充值
		if time.Since(txn.CreatedAt) > s.expiry {
			if err := s.repo.DeleteTransaction(txn.ID); err != nil {
				logger.Log.Error("Failed to delete expired deposit",
					zap.String("transaction_id", txn.ID),
					zap.Error(err),
				)
				continue
			}
			collector.RecordDepositExpired()
			logger.Log.Info("Expired deposit deleted",
				zap.String("transaction_id", txn.ID),
				zap.String("code", txn.TransactionCode),
			)
		}
	}

	collector.RecordReconcileCycle(time.Since(start).Seconds())
	return nil
}

// creditMatched 将匹配到的流水置为 DONE 并入账。
// 状态翻转带 PENDING 守卫，同一网关快照重复对账最多入账一次。
func (s *walletService) creditMatched(txn model.WalletTransaction) error {
	credited := false

	err := s.repo.Transact(func(tx *gorm.DB) error {
		done, err := s.repo.MarkDone(tx, txn.ID, time.Now())
		if err != nil {
			return err
		}
		if !done {
			// 已被处理过，什么都不做
			return nil
		}

		if err := s.repo.Credit(tx, txn.WalletID, txn.Amount); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil || !credited {
		return err
	}

	metrics.GetGlobalCollector().RecordDepositMatched()
	logger.Log.Info("Deposit credited",
		zap.String("transaction_id", txn.ID),
		zap.String("code", txn.TransactionCode),
		zap.String("amount", txn.Amount.String()),
	)

	s.notifyCredited(txn)
	return nil
}

func (s *walletService) notifyCredited(txn model.WalletTransaction) {
	wallet, err := s.repo.GetByID(txn.WalletID)
	if err != nil {
		logger.Log.Warn("Wallet lookup failed for deposit notification", zap.Error(err))
		return
	}
	user, err := s.users.GetByID(wallet.UserID)
	if err != nil {
		logger.Log.Warn("User lookup failed for deposit notification", zap.Error(err))
		return
	}
	s.notifier.DepositCredited(user.Email, txn.TransactionCode, txn.Amount)
}
