package model

// Buyer 下单人身份：游客或已登录用户。
// 用显式的和类型代替可空字符串，逼着调用方处理两个分支。
type Buyer struct {
	userID string
}

// Guest 游客结算
func Guest() Buyer {
	return Buyer{}
}

// Registered 已登录用户；空 id 等同于游客
func Registered(userID string) Buyer {
	return Buyer{userID: userID}
}

// IsGuest 是否游客
func (b Buyer) IsGuest() bool {
	return b.userID == ""
}

// UserID 返回用户 id，游客时 ok 为 false
func (b Buyer) UserID() (string, bool) {
	return b.userID, b.userID != ""
}
