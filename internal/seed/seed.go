package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultOwnerName     = "Default Owner"
	defaultOwnerEmail    = "owner@pgdesk.local"
	defaultOwnerProperty = "Main Property"
)

// Owner is the property owner every record is scoped to. Requests carry the
// owner id in the X-Owner-ID header; this seed guarantees at least one exists.
type Owner struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Email        string       `json:"email" gorm:"type:text;not null"`
	Phone        string       `json:"phone" gorm:"type:text"`
	PropertyName string       `json:"property_name" gorm:"type:text;not null"`
	IsDefault    bool         `json:"is_default" gorm:"not null;default:false"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Owner) TableName() string { return "owners" }

// EnsureDefaultOwner seeds the default owner for startup bootstrap.
func EnsureDefaultOwner(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultOwnerTx(ctx, tx, node.Generate())
		return err
	})
}

// EnsureDefaultOwnerWithID seeds the default owner under a fixed id so the
// configured DEFAULT_OWNER survives restarts and fresh databases.
func EnsureDefaultOwnerWithID(db *gorm.DB, id snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed owner id is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultOwnerTx(ctx, tx, id)
		return err
	})
}

func ensureDefaultOwnerTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (Owner, error) {
	var owner Owner
	err := tx.WithContext(ctx).Where("is_default = ?", true).First(&owner).Error
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return owner, err
	}

	now := time.Now().UTC()
	owner = Owner{
		ID:           id,
		Name:         defaultOwnerName,
		Email:        defaultOwnerEmail,
		PropertyName: defaultOwnerProperty,
		IsDefault:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&owner).Error; err != nil {
		return owner, err
	}
	return owner, nil
}
