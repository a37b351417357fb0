package models

import "time"

// CollectionRecord 命名集合记录，每个集合以 JSON 数组整体存储
type CollectionRecord struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)" json:"name"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CollectionRecord) TableName() string {
	return "collections"
}
