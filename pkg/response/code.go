package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 订单模块错误 300xx
	ErrOrderNotFound     = 30001
	ErrInvalidState      = 30002
	ErrAlreadyCancelled  = 30003
	ErrInsufficientStock = 30004
	ErrProductNotFound   = 30005

	// 钱包模块错误 400xx
	ErrWalletNotFound    = 40001
	ErrInsufficientFunds = 40002
	ErrGuestWalletPay    = 40003
	ErrDuplicateDeposit  = 40004

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
