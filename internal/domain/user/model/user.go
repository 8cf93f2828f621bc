package model

import (
	baseModel "wastetoworth/pkg/model"
)

// 用户角色
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User 用户模型。注册、登录等身份流程由外部协作方负责，
// 这里只保留订单归属、钱包归属和通知收件人所需的字段。
type User struct {
	baseModel.BaseModel
	Email string `gorm:"unique;not null" json:"email"`
	Name  string `json:"name"`
	Role  int    `gorm:"default:0" json:"role"`
}
