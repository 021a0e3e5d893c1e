package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id                   uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId             string         `gorm:"type:varchar(64);not null;index"`
	UserId               string         `gorm:"type:varchar(64);not null;index"`
	AgentId              string         `gorm:"type:varchar(64);not null;index"`
	LastUserMessage      string         `gorm:"type:text"`
	LastAssistantMessage string         `gorm:"type:text"`
	ReferencedUrls       datatypes.JSON `gorm:"type:jsonb"`
	IsGrounded           bool           `gorm:"not null;default:false"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
