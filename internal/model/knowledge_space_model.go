package model

import (
	"time"

	"gorm.io/datatypes"
)

type KnowledgeSpace struct {
	TenantId         string         `gorm:"type:varchar(64);primaryKey"`
	KnowledgeSpaceId string         `gorm:"type:varchar(64);primaryKey"`
	Name             string         `gorm:"type:varchar(255);not null"`
	SourceType       string         `gorm:"type:varchar(32);not null"`
	SourceUrls       datatypes.JSON `gorm:"type:jsonb"`
	CurrentVersion   string         `gorm:"type:varchar(32);not null"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (KnowledgeSpace) TableName() string {
	return "knowledge_spaces"
}
