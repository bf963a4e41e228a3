package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"finsim/internal/domain/saving"
	vo "finsim/internal/domain/saving/valueobjects"
	"finsim/internal/infrastructure/persistence/models"
)

type SavingSubscriptionMapper interface {
	ToEntity(model *models.SavingSubscriptionModel) (*saving.Subscription, error)
	ToModel(entity *saving.Subscription) (*models.SavingSubscriptionModel, error)
	ToEntities(models []*models.SavingSubscriptionModel) ([]*saving.Subscription, error)
}

type SavingSubscriptionMapperImpl struct{}

func NewSavingSubscriptionMapper() SavingSubscriptionMapper {
	return &SavingSubscriptionMapperImpl{}
}

func (m *SavingSubscriptionMapperImpl) ToEntity(model *models.SavingSubscriptionModel) (*saving.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	var settlement *saving.Settlement
	if len(model.Settlement) > 0 && string(model.Settlement) != "null" {
		settlement = &saving.Settlement{}
		if err := json.Unmarshal(model.Settlement, settlement); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settlement: %w", err)
		}
	}

	entity, err := saving.ReconstructSubscription(saving.SubscriptionReconstructParams{
		ID:              model.ID,
		UserID:          model.UserID,
		ProductOptionID: model.ProductOptionID,
		Term:            model.Term,
		AutoDebitAmount: model.AutoDebitAmount,
		StartDate:       model.StartDate.UTC(),
		MaturityDate:    model.MaturityDate.UTC(),
		Status:          vo.SubscriptionStatus(model.Status),
		CanceledAt:      model.CanceledAt,
		TerminatedAt:    model.TerminatedAt,
		MaturedAt:       model.MaturedAt,
		Settlement:      settlement,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct saving subscription: %w", err)
	}
	return entity, nil
}

func (m *SavingSubscriptionMapperImpl) ToModel(entity *saving.Subscription) (*models.SavingSubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var settlementJSON datatypes.JSON
	if s := entity.Settlement(); s != nil {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settlement: %w", err)
		}
		settlementJSON = data
	}

	return &models.SavingSubscriptionModel{
		ID:              entity.ID(),
		UserID:          entity.UserID(),
		ProductOptionID: entity.ProductOptionID(),
		Term:            entity.Term(),
		AutoDebitAmount: entity.AutoDebitAmount(),
		StartDate:       entity.StartDate(),
		MaturityDate:    entity.MaturityDate(),
		Status:          entity.Status().String(),
		CanceledAt:      entity.CanceledAt(),
		TerminatedAt:    entity.TerminatedAt(),
		MaturedAt:       entity.MaturedAt(),
		Settlement:      settlementJSON,
		Version:         entity.Version(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *SavingSubscriptionMapperImpl) ToEntities(modelList []*models.SavingSubscriptionModel) ([]*saving.Subscription, error) {
	entities := make([]*saving.Subscription, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("subscription %d: %w", model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
