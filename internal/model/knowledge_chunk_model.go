package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeChunk struct {
	Id               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Namespace        string          `gorm:"type:varchar(192);not null;index"`
	TenantId         string          `gorm:"type:varchar(64);not null;index"`
	KnowledgeSpaceId string          `gorm:"type:varchar(64);not null"`
	Url              string          `gorm:"type:text"`
	Domain           string          `gorm:"type:varchar(255)"`
	Content          string          `gorm:"type:text;not null"`
	Embedding        pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	Metadata         datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
