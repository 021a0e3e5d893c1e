package implementation

import (
	"context"
	"errors"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/mapper"
	"rag-chat-be/internal/model"
	"rag-chat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeSpaceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeSpaceMapper
}

func NewKnowledgeSpaceRepository(db *gorm.DB) contract.KnowledgeSpaceRepository {
	return &KnowledgeSpaceRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeSpaceMapper(),
	}
}

func (r *KnowledgeSpaceRepositoryImpl) Save(ctx context.Context, space *entity.KnowledgeSpace) error {
	m := r.mapper.ToModel(space)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "knowledge_space_id"}},
		UpdateAll: true,
	}).Create(m).Error; err != nil {
		return err
	}
	*space = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeSpaceRepositoryImpl) FindByTenantAndId(ctx context.Context, tenantId, knowledgeSpaceId string) (*entity.KnowledgeSpace, error) {
	var m model.KnowledgeSpace
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND knowledge_space_id = ?", tenantId, knowledgeSpaceId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeSpaceRepositoryImpl) FindAllByTenant(ctx context.Context, tenantId string) ([]*entity.KnowledgeSpace, error) {
	var models []*model.KnowledgeSpace
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeSpaceRepositoryImpl) Delete(ctx context.Context, tenantId, knowledgeSpaceId string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND knowledge_space_id = ?", tenantId, knowledgeSpaceId).
		Delete(&model.KnowledgeSpace{}).Error
}
