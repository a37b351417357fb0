package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money 金额类型
// 运算保持完整精度；JSON 序列化固定 2 位小数，集合存储也走 JSON，落盘即为 2 位。
// 目录金额在录入时已四舍五入到 2 位，读回的值与录入一致。
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount}
}

// MustMoney 从字符串创建金额，解析失败时 panic（仅用于常量与测试数据）
func MustMoney(value string) Money {
	return Money{Decimal: decimal.RequireFromString(value)}
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串、数字或 null）
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			m.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}
