package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"wastetoworth/internal/domain/order/model"
	"wastetoworth/internal/domain/order/repository"
	productRepo "wastetoworth/internal/domain/product/repository"
	userRepo "wastetoworth/internal/domain/user/repository"
	walletModel "wastetoworth/internal/domain/wallet/model"
	walletRepo "wastetoworth/internal/domain/wallet/repository"
	"wastetoworth/internal/pkg/config"
	"wastetoworth/internal/pkg/mailer"
	"wastetoworth/pkg/logger"
	"wastetoworth/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidState       = errors.New("transition not allowed from current status")
	ErrAlreadyCancelled   = errors.New("order already cancelled")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrGuestWalletPayment = errors.New("wallet payment requires a registered user")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be positive")
	ErrWalletNotFound     = errors.New("wallet not found")
)

// ItemInput 下单条目，单价以商品当前价为准，不信任客户端
type ItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// OrderService 订单事务管理器：聚合的唯一写入方。
// 每个涉及钱或库存的流转都在单个原子工作单元内完成，
// 崩溃或并发冲突不可能留下"扣了库存没有订单"之类的半截状态。
type OrderService interface {
	CreateOrder(buyer model.Buyer, items []ItemInput, payment model.PaymentMethod, address model.Address) (*model.Order, error)
	ApproveOrder(orderID string) (*model.Order, error)
	AssignOrder(orderID string) (*model.Order, error)
	ConfirmReceived(orderID string) (*model.Order, error)
	CancelOrder(orderID string, reason string) error
	GetOrdersByUser(userID string, status string, limit int) ([]model.Order, error)
	GetOrders(status string) ([]model.Order, error)
}

type orderService struct {
	repo     repository.OrderRepository
	products productRepo.ProductRepository
	wallets  walletRepo.WalletRepository
	users    userRepo.UserRepository
	notifier mailer.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	products productRepo.ProductRepository,
	wallets walletRepo.WalletRepository,
	users userRepo.UserRepository,
	notifier mailer.Dispatcher,
) OrderService {
	return &orderService{
		repo:     repo,
		products: products,
		wallets:  wallets,
		users:    users,
		notifier: notifier,
	}
}

// CreateOrder 结算：校验库存/余额，原子地写入 订单+条目+库存扣减，
// 钱包支付时同事务扣款并落台账。成功后异步通知管理员。
func (s *orderService) CreateOrder(buyer model.Buyer, items []ItemInput, payment model.PaymentMethod, address model.Address) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	// 预校验 + 取价格快照。守卫更新才是权威检查，
	// 这里先读一遍是为了把"哪个商品不够"说清楚，并保证失败时零副作用。
	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))
	productNames := make(map[string]string, len(items))
	for _, it := range items {
		product, err := s.products.GetByID(it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
			}
			return nil, err
		}
		if product.Stock < it.Quantity {
			return nil, fmt.Errorf("%w: product %q has %d, need %d",
				ErrInsufficientStock, product.Name, product.Stock, it.Quantity)
		}

		productNames[product.ID] = product.Name
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	// 钱包支付必须是注册用户，且余额足够——都在任何写入之前拒绝
	var wallet *walletModel.Wallet
	if payment == model.PaymentWallet {
		userID, ok := buyer.UserID()
		if !ok {
			return nil, ErrGuestWalletPayment
		}
		w, err := s.wallets.GetByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrWalletNotFound
			}
			return nil, err
		}
		if w.Balance.LessThan(total) {
			return nil, fmt.Errorf("%w: balance %s, need %s",
				ErrInsufficientFunds, w.Balance.String(), total.String())
		}
		wallet = w
	}

	addressJSON, err := json.Marshal(address)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Total:       total,
		Status:      model.StatusPending,
		Payment:     payment,
		UserAddress: addressJSON,
		Items:       orderItems,
	}
	if userID, ok := buyer.UserID(); ok {
		order.UserID = &userID
	}

	err = s.repo.Transact(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, order); err != nil {
			return err
		}

		// 守卫扣减：并发订单抢同一商品时，只有一个能通过 stock >= qty
		for _, it := range order.Items {
			if err := s.products.ReserveStock(tx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, productRepo.ErrStockExhausted) {
					return fmt.Errorf("%w: product %q", ErrInsufficientStock, productNames[it.ProductID])
				}
				return err
			}
		}

		if wallet != nil {
			if err := s.wallets.Debit(tx, wallet.ID, total); err != nil {
				if errors.Is(err, walletRepo.ErrBalanceExhausted) {
					return ErrInsufficientFunds
				}
				return err
			}
			// 台账记录本次扣款
			return s.wallets.CreateTransaction(tx, &walletModel.WalletTransaction{
				WalletID:        wallet.ID,
				Amount:          total.Neg(),
				TransactionCode: "ORDER-" + order.ID,
				Status:          walletModel.TransactionDone,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordOrderCreated(string(payment))
	logger.Log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("payment", string(payment)),
		zap.String("total", total.String()),
	)

	s.notifier.OrderCreated(s.adminRecipients(), order.ID, order.Total)
	return order, nil
}

// ApproveOrder 审批：PENDING -> CONFIRMED。
// 库存在创建时已经扣过，这里只重新校验（防止创建和审批之间被其他路径耗尽），
// 绝不二次扣减。
func (s *orderService) ApproveOrder(orderID string) (*model.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: order is %s, approval requires PENDING", ErrInvalidState, order.Status)
	}

	for _, it := range order.Items {
		product, err := s.products.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		// 本单的份额在创建时已经从 stock 里扣掉，
		// 校验时要把自己的预留加回来再比
		if product.Stock+it.Quantity < it.Quantity {
			return nil, fmt.Errorf("%w: product %q has %d reserved-adjusted, need %d",
				ErrInsufficientStock, product.Name, product.Stock+it.Quantity, it.Quantity)
		}
	}

	if err := s.transition(orderID, order.Status, model.StatusConfirmed, nil); err != nil {
		return nil, err
	}
	order.Status = model.StatusConfirmed

	s.notifyBuyer(order, model.StatusConfirmed, "")
	return order, nil
}

// AssignOrder 发货：CONFIRMED -> SHIPPING
func (s *orderService) AssignOrder(orderID string) (*model.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusConfirmed {
		return nil, fmt.Errorf("%w: order is %s, shipping requires CONFIRMED", ErrInvalidState, order.Status)
	}

	if err := s.transition(orderID, order.Status, model.StatusShipping, nil); err != nil {
		return nil, err
	}
	order.Status = model.StatusShipping

	s.notifyBuyer(order, model.StatusShipping, "")
	return order, nil
}

// ConfirmReceived 确认收货：CONFIRMED/SHIPPING -> DELIVERED
func (s *orderService) ConfirmReceived(orderID string) (*model.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(order.Status, model.StatusDelivered) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
	}

	if err := s.transition(orderID, order.Status, model.StatusDelivered, nil); err != nil {
		return nil, err
	}
	order.Status = model.StatusDelivered

	s.notifyBuyer(order, model.StatusDelivered, "")
	return order, nil
}

// CancelOrder 取消：任何非终态 -> CANCELLED。
// 补偿动作（库存回补、钱包退款）与状态写入同一事务。
func (s *orderService) CancelOrder(orderID string, reason string) error {
	order, err := s.getOrder(orderID)
	if err != nil {
		return err
	}
	if order.Status == model.StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !model.CanTransition(order.Status, model.StatusCancelled) {
		return fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
	}

	from := order.Status
	err = s.repo.Transact(func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatus(tx, orderID, from, model.StatusCancelled, &reason)
		if err != nil {
			return err
		}
		if !ok {
			// 并发流转抢先了，让调用方重查状态
			return fmt.Errorf("%w: order is no longer %s", ErrInvalidState, from)
		}

		// 回补库存：逐条目 stock += qty, sold -= qty
		for _, it := range order.Items {
			if err := s.products.ReleaseStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		// 钱包支付的订单把全款退回
		if order.Payment == model.PaymentWallet {
			userID, ok := order.Buyer().UserID()
			if !ok {
				return nil
			}
			wallet, err := s.wallets.GetByUserID(userID)
			if err != nil {
				return err
			}
			if err := s.wallets.Credit(tx, wallet.ID, order.Total); err != nil {
				return err
			}
			return s.wallets.CreateTransaction(tx, &walletModel.WalletTransaction{
				WalletID:        wallet.ID,
				Amount:          order.Total,
				TransactionCode: "REFUND-" + order.ID,
				Status:          walletModel.TransactionDone,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.GetGlobalCollector().RecordOrderTransition(string(model.StatusCancelled))
	logger.Log.Info("Order cancelled",
		zap.String("order_id", orderID),
		zap.String("reason", reason),
	)

	// 买家和管理员各自独立通知，互不影响
	s.notifyBuyer(order, model.StatusCancelled, reason)
	s.notifier.OrderCancelled(s.adminRecipients(), order.ID, reason)
	return nil
}

func (s *orderService) GetOrdersByUser(userID string, status string, limit int) ([]model.Order, error) {
	// 与管理端不同，用户侧的非法状态过滤直接忽略
	if status != "" && !model.ValidStatus(status) {
		status = ""
	}
	return s.repo.ListByUser(userID, status, limit)
}

func (s *orderService) GetOrders(status string) ([]model.Order, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidState, status)
	}
	return s.repo.List(status)
}

func (s *orderService) getOrder(orderID string) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// transition 单状态写入的守卫流转
func (s *orderService) transition(orderID string, from, to model.Status, reason *string) error {
	err := s.repo.Transact(func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatus(tx, orderID, from, to, reason)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order is no longer %s", ErrInvalidState, from)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.GetGlobalCollector().RecordOrderTransition(string(to))
	return nil
}

func (s *orderService) notifyBuyer(order *model.Order, status model.Status, reason string) {
	if order.User == nil || order.User.Email == "" {
		return
	}
	s.notifier.OrderStatusChanged(order.User.Email, order.ID, string(status), reason)
}

// adminRecipients 解析管理员收件人：按角色查询，配置地址兜底
func (s *orderService) adminRecipients() []string {
	emails, err := s.users.AdminEmails()
	if err != nil {
		logger.Log.Warn("Admin email lookup failed", zap.Error(err))
	}
	if len(emails) == 0 && config.GlobalConfig.Mail.AdminEmail != "" {
		emails = []string{config.GlobalConfig.Mail.AdminEmail}
	}
	return emails
}
