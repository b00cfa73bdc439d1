package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/xbg/ifood-admin/internal/model"
	"github.com/xbg/ifood-admin/internal/repo/selector"
)

type Property struct {
	db  *bun.DB
	sel selector.S[model.Property]
}

func NewProperty(db *bun.DB) *Property {
	return &Property{db: db, sel: selector.New[model.Property](db)}
}

func (r *Property) MapperName() string {
	return "property"
}

func (r *Property) GetProperties(ctx context.Context) ([]*model.Property, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? ASC", bun.Ident("key"))
	})
}

func (r *Property) GetPropertyByKey(ctx context.Context, key string) (*model.Property, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident("key"), key)
	})
}

func (r *Property) UpsertProperty(ctx context.Context, key, value string) (*model.Property, error) {
	property := &model.Property{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.db.NewInsert().
		Model(property).
		On(`CONFLICT ("key") DO UPDATE`).
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return property, nil
}
