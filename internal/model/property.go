package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Property struct {
	bun.BaseModel `bun:"properties,alias:p"`

	Key       string    `bun:",pk" json:"key"`
	Value     string    `bun:",notnull" json:"value"`
	UpdatedAt time.Time `bun:",notnull,default:current_timestamp" json:"updatedAt"`
}
