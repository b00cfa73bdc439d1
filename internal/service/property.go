package service

import (
	"context"

	"github.com/xbg/ifood-admin/internal/model"
	"github.com/xbg/ifood-admin/internal/repo"
)

type Property struct {
	PropertyRepo *repo.Property
}

func NewProperty(propertyRepo *repo.Property) *Property {
	return &Property{
		PropertyRepo: propertyRepo,
	}
}

func (s *Property) GetProperties(ctx context.Context) ([]*model.Property, error) {
	return s.PropertyRepo.GetProperties(ctx)
}

func (s *Property) GetPropertyByKey(ctx context.Context, key string) (*model.Property, error) {
	return s.PropertyRepo.GetPropertyByKey(ctx, key)
}

// GetPropertiesMap flattens every property into a key/value map.
func (s *Property) GetPropertiesMap(ctx context.Context) (map[string]string, error) {
	properties, err := s.PropertyRepo.GetProperties(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(properties))
	for _, p := range properties {
		m[p.Key] = p.Value
	}
	return m, nil
}
