package model

import (
	"time"

	"gorm.io/datatypes"
)

type Agent struct {
	TenantId          string         `gorm:"type:varchar(64);primaryKey"`
	AgentId           string         `gorm:"type:varchar(64);primaryKey"`
	Name              string         `gorm:"type:varchar(255);not null"`
	KnowledgeSpaceIds datatypes.JSON `gorm:"type:jsonb;not null"`
	StrictRag         bool           `gorm:"not null;default:true"`
	SystemPrompt      string         `gorm:"type:text"`
	Description       string         `gorm:"type:text"`
	PromptPreset      string         `gorm:"type:varchar(64)"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
}

func (Agent) TableName() string {
	return "agents"
}
