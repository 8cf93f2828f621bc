package service

import (
	"errors"
	"testing"
	"time"
	"wastetoworth/internal/domain/order/model"
	productModel "wastetoworth/internal/domain/product/model"
	productRepo "wastetoworth/internal/domain/product/repository"
	userModel "wastetoworth/internal/domain/user/model"
	walletModel "wastetoworth/internal/domain/wallet/model"
	baseModel "wastetoworth/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Transact(fn func(tx *gorm.DB) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockOrderRepository) Create(tx *gorm.DB, order *model.Order) error {
	args := m.Called(tx, order)
	if args.Error(0) == nil && order.ID == "" {
		order.ID = "order-1"
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(tx *gorm.DB, orderID string, from, to model.Status, reason *string) (bool, error) {
	args := m.Called(tx, orderID, from, to, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string, status string, limit int) ([]model.Order, error) {
	args := m.Called(userID, status, limit)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(status string) ([]model.Order, error) {
	args := m.Called(status)
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockProductRepository is a mock of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(id string) (*productModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

func (m *MockProductRepository) ReserveStock(tx *gorm.DB, productID string, qty int) error {
	args := m.Called(tx, productID, qty)
	return args.Error(0)
}

func (m *MockProductRepository) ReleaseStock(tx *gorm.DB, productID string, qty int) error {
	args := m.Called(tx, productID, qty)
	return args.Error(0)
}

// MockWalletRepository is a mock of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Transact(fn func(tx *gorm.DB) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockWalletRepository) GetByUserID(userID string) (*walletModel.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletModel.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByID(id string) (*walletModel.Wallet, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletModel.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	args := m.Called(tx, walletID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) Credit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	args := m.Called(tx, walletID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) CreateTransaction(tx *gorm.DB, wt *walletModel.WalletTransaction) error {
	args := m.Called(tx, wt)
	return args.Error(0)
}

func (m *MockWalletRepository) ListTransactions(walletID string) ([]walletModel.WalletTransaction, error) {
	args := m.Called(walletID)
	return args.Get(0).([]walletModel.WalletTransaction), args.Error(1)
}

func (m *MockWalletRepository) ListPending() ([]walletModel.WalletTransaction, error) {
	args := m.Called()
	return args.Get(0).([]walletModel.WalletTransaction), args.Error(1)
}

func (m *MockWalletRepository) MarkDone(tx *gorm.DB, transactionID string, confirmedAt time.Time) (bool, error) {
	args := m.Called(tx, transactionID, confirmedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) DeleteTransaction(transactionID string) error {
	args := m.Called(transactionID)
	return args.Error(0)
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) AdminEmails() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

// MockDispatcher is a mock of mailer.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) OrderCreated(to []string, orderID string, total decimal.Decimal) {
	m.Called(to, orderID, total)
}

func (m *MockDispatcher) OrderStatusChanged(to string, orderID string, status string, reason string) {
	m.Called(to, orderID, status, reason)
}

func (m *MockDispatcher) OrderCancelled(to []string, orderID string, reason string) {
	m.Called(to, orderID, reason)
}

func (m *MockDispatcher) DepositCredited(to string, transactionCode string, amount decimal.Decimal) {
	m.Called(to, transactionCode, amount)
}

type testEnv struct {
	orders   *MockOrderRepository
	products *MockProductRepository
	wallets  *MockWalletRepository
	users    *MockUserRepository
	notifier *MockDispatcher
	service  OrderService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		orders:   new(MockOrderRepository),
		products: new(MockProductRepository),
		wallets:  new(MockWalletRepository),
		users:    new(MockUserRepository),
		notifier: new(MockDispatcher),
	}
	env.service = NewOrderService(env.orders, env.products, env.wallets, env.users, env.notifier)
	return env
}

func decEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expected) })
}

func testProduct(id, name string, price int64, stock int) *productModel.Product {
	return &productModel.Product{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		Status:    productModel.ProductStatusActive,
	}
}

func testAddress() model.Address {
	return model.Address{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Province: "Ho Chi Minh",
	}
}

func testOrder(id string, status model.Status, payment model.PaymentMethod, userID string) *model.Order {
	o := &model.Order{
		BaseModel: baseModel.BaseModel{ID: id},
		Total:     decimal.NewFromInt(100),
		Status:    status,
		Payment:   payment,
		Items: []model.OrderItem{
			{ProductID: "product-1", Quantity: 2, Price: decimal.NewFromInt(50)},
		},
	}
	if userID != "" {
		o.UserID = &userID
		o.User = &userModel.User{
			BaseModel: baseModel.BaseModel{ID: userID},
			Email:     "buyer@example.com",
		}
	}
	return o
}

func TestCreateOrder(t *testing.T) {
	t.Run("COD order reserves stock and records total", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 10), nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		env.products.On("ReserveStock", mock.Anything, "product-1", 2).Return(nil)
		env.users.On("AdminEmails").Return([]string{"admin@example.com"}, nil)
		env.notifier.On("OrderCreated", []string{"admin@example.com"}, mock.Anything, mock.Anything).Return()

		order, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentCOD, testAddress())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(100)))
		assert.Nil(t, order.UserID)
		env.orders.AssertExpectations(t)
		env.products.AssertExpectations(t)
		env.wallets.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty item list rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.CreateOrder(model.Guest(), nil, model.PaymentCOD, testAddress())

		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("Non-positive quantity rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "product-1", Quantity: 0}}, model.PaymentCOD, testAddress())

		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Insufficient stock fails with zero side effects", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 1), nil)

		_, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentCOD, testAddress())

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Tui tai che")
		env.orders.AssertNotCalled(t, "Transact", mock.Anything)
		env.products.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown product rejected", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "missing", Quantity: 1}}, model.PaymentCOD, testAddress())

		assert.ErrorIs(t, err, ErrProductNotFound)
		env.orders.AssertNotCalled(t, "Transact", mock.Anything)
	})

	t.Run("Guest with wallet payment rejected before any write", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 10), nil)

		_, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentWallet, testAddress())

		assert.ErrorIs(t, err, ErrGuestWalletPayment)
		env.orders.AssertNotCalled(t, "Transact", mock.Anything)
		env.wallets.AssertNotCalled(t, "GetByUserID", mock.Anything)
		env.wallets.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wallet payment debits balance and writes ledger entry", func(t *testing.T) {
		env := newTestEnv()
		total := decimal.NewFromInt(100)
		wallet := &walletModel.Wallet{
			BaseModel: baseModel.BaseModel{ID: "wallet-1"},
			UserID:    "user-1",
			Balance:   decimal.NewFromInt(500),
		}

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 10), nil)
		env.wallets.On("GetByUserID", "user-1").Return(wallet, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		env.products.On("ReserveStock", mock.Anything, "product-1", 2).Return(nil)
		env.wallets.On("Debit", mock.Anything, "wallet-1", decEq(total)).Return(nil)
		env.wallets.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(wt *walletModel.WalletTransaction) bool {
			return wt.WalletID == "wallet-1" &&
				wt.Amount.Equal(total.Neg()) &&
				wt.Status == walletModel.TransactionDone
		})).Return(nil)
		env.users.On("AdminEmails").Return([]string{"admin@example.com"}, nil)
		env.notifier.On("OrderCreated", mock.Anything, mock.Anything, mock.Anything).Return()

		order, err := env.service.CreateOrder(model.Registered("user-1"), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentWallet, testAddress())

		assert.NoError(t, err)
		assert.NotNil(t, order.UserID)
		assert.Equal(t, "user-1", *order.UserID)
		env.wallets.AssertExpectations(t)
	})

	t.Run("Wallet payment with insufficient balance rejected before any write", func(t *testing.T) {
		env := newTestEnv()
		wallet := &walletModel.Wallet{
			BaseModel: baseModel.BaseModel{ID: "wallet-1"},
			UserID:    "user-1",
			Balance:   decimal.NewFromInt(30),
		}

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 10), nil)
		env.wallets.On("GetByUserID", "user-1").Return(wallet, nil)

		_, err := env.service.CreateOrder(model.Registered("user-1"), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentWallet, testAddress())

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		env.orders.AssertNotCalled(t, "Transact", mock.Anything)
		env.wallets.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent stock loss inside transaction surfaces insufficient stock", func(t *testing.T) {
		env := newTestEnv()

		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 10), nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
		env.products.On("ReserveStock", mock.Anything, "product-1", 2).Return(productRepo.ErrStockExhausted)

		_, err := env.service.CreateOrder(model.Guest(), []ItemInput{{ProductID: "product-1", Quantity: 2}}, model.PaymentCOD, testAddress())

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Tui tai che")
	})
}

func TestApproveOrder(t *testing.T) {
	t.Run("Pending order approved without second stock decrement", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		// 创建时已经扣过，库存读数为 0 也必须能过审批
		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 0), nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusPending, model.StatusConfirmed, (*string)(nil)).Return(true, nil)
		env.notifier.On("OrderStatusChanged", "buyer@example.com", "order-1", string(model.StatusConfirmed), "").Return()

		result, err := env.service.ApproveOrder("order-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, result.Status)
		env.products.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
		env.orders.AssertExpectations(t)
	})

	t.Run("Approval requires pending status", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusConfirmed, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)

		_, err := env.service.ApproveOrder("order-1")

		assert.ErrorIs(t, err, ErrInvalidState)
		env.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing order", func(t *testing.T) {
		env := newTestEnv()

		env.orders.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := env.service.ApproveOrder("nope")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Lost guarded transition reported as invalid state", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.products.On("GetByID", "product-1").Return(testProduct("product-1", "Tui tai che", 50, 0), nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusPending, model.StatusConfirmed, (*string)(nil)).Return(false, nil)

		_, err := env.service.ApproveOrder("order-1")

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestAssignOrder(t *testing.T) {
	t.Run("Confirmed order moves to shipping", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusConfirmed, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusConfirmed, model.StatusShipping, (*string)(nil)).Return(true, nil)
		env.notifier.On("OrderStatusChanged", "buyer@example.com", "order-1", string(model.StatusShipping), "").Return()

		result, err := env.service.AssignOrder("order-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusShipping, result.Status)
	})

	t.Run("Shipping requires confirmed status", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)

		_, err := env.service.AssignOrder("order-1")

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestConfirmReceived(t *testing.T) {
	t.Run("Delivered from shipping", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusShipping, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusShipping, model.StatusDelivered, (*string)(nil)).Return(true, nil)
		env.notifier.On("OrderStatusChanged", "buyer@example.com", "order-1", string(model.StatusDelivered), "").Return()

		result, err := env.service.ConfirmReceived("order-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, result.Status)
	})

	t.Run("Delivered directly from confirmed", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusConfirmed, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusConfirmed, model.StatusDelivered, (*string)(nil)).Return(true, nil)
		env.notifier.On("OrderStatusChanged", "buyer@example.com", "order-1", string(model.StatusDelivered), "").Return()

		result, err := env.service.ConfirmReceived("order-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, result.Status)
	})

	t.Run("Pending order cannot be confirmed received", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)

		_, err := env.service.ConfirmReceived("order-1")

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("Cancel releases stock and refunds wallet payment", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusConfirmed, model.PaymentWallet, "user-1")
		wallet := &walletModel.Wallet{
			BaseModel: baseModel.BaseModel{ID: "wallet-1"},
			UserID:    "user-1",
			Balance:   decimal.NewFromInt(0),
		}
		reason := "changed my mind"

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusConfirmed, model.StatusCancelled, &reason).Return(true, nil)
		env.products.On("ReleaseStock", mock.Anything, "product-1", 2).Return(nil)
		env.wallets.On("GetByUserID", "user-1").Return(wallet, nil)
		env.wallets.On("Credit", mock.Anything, "wallet-1", decEq(order.Total)).Return(nil)
		env.wallets.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(wt *walletModel.WalletTransaction) bool {
			return wt.WalletID == "wallet-1" &&
				wt.Amount.Equal(order.Total) &&
				wt.TransactionCode == "REFUND-order-1" &&
				wt.Status == walletModel.TransactionDone
		})).Return(nil)
		env.users.On("AdminEmails").Return([]string{"admin@example.com"}, nil)
		env.notifier.On("OrderStatusChanged", "buyer@example.com", "order-1", string(model.StatusCancelled), reason).Return()
		env.notifier.On("OrderCancelled", []string{"admin@example.com"}, "order-1", reason).Return()

		err := env.service.CancelOrder("order-1", reason)

		assert.NoError(t, err)
		env.orders.AssertExpectations(t)
		env.products.AssertExpectations(t)
		env.wallets.AssertExpectations(t)
	})

	t.Run("COD cancel releases stock without wallet refund", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "")
		reason := "out of area"

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusPending, model.StatusCancelled, &reason).Return(true, nil)
		env.products.On("ReleaseStock", mock.Anything, "product-1", 2).Return(nil)
		env.users.On("AdminEmails").Return([]string{"admin@example.com"}, nil)
		env.notifier.On("OrderCancelled", []string{"admin@example.com"}, "order-1", reason).Return()

		err := env.service.CancelOrder("order-1", reason)

		assert.NoError(t, err)
		env.wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancelling twice reports already cancelled", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusCancelled, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)

		err := env.service.CancelOrder("order-1", "again")

		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		env.orders.AssertNotCalled(t, "Transact", mock.Anything)
	})

	t.Run("Delivered order cannot be cancelled", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusDelivered, model.PaymentCOD, "user-1")

		env.orders.On("GetByID", "order-1").Return(order, nil)

		err := env.service.CancelOrder("order-1", "too late")

		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Release failure rolls the whole cancellation back", func(t *testing.T) {
		env := newTestEnv()
		order := testOrder("order-1", model.StatusPending, model.PaymentCOD, "user-1")
		reason := "bad item"
		boom := errors.New("db down")

		env.orders.On("GetByID", "order-1").Return(order, nil)
		env.orders.On("Transact", mock.Anything).Return(nil)
		env.orders.On("UpdateStatus", mock.Anything, "order-1", model.StatusPending, model.StatusCancelled, &reason).Return(true, nil)
		env.products.On("ReleaseStock", mock.Anything, "product-1", 2).Return(boom)

		err := env.service.CancelOrder("order-1", reason)

		assert.ErrorIs(t, err, boom)
		env.notifier.AssertNotCalled(t, "OrderCancelled", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetOrders(t *testing.T) {
	t.Run("Status filter validated on the admin side", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetOrders("BOGUS")

		assert.ErrorIs(t, err, ErrInvalidState)
		env.orders.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("Bad user-side status filter is ignored", func(t *testing.T) {
		env := newTestEnv()

		env.orders.On("ListByUser", "user-1", "", 10).Return([]model.Order{}, nil)

		_, err := env.service.GetOrdersByUser("user-1", "BOGUS", 10)

		assert.NoError(t, err)
		env.orders.AssertExpectations(t)
	})
}
