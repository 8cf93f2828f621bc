package model

// Status 订单状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipping  Status = "SHIPPING"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// validNext 状态机允许的边。
// 主线 PENDING -> CONFIRMED -> SHIPPING -> DELIVERED；
// 任何非终态都可以转 CANCELLED；
// 确认收货允许从 CONFIRMED 或 SHIPPING 进入 DELIVERED。
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipping: true, StatusDelivered: true, StatusCancelled: true},
	StatusShipping:  {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition 判断一次状态流转是否合法
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal 是否终态
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// ValidStatus 校验外部传入的状态过滤串
func ValidStatus(s string) bool {
	_, ok := validNext[Status(s)]
	return ok
}
