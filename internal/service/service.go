// Package service implements the operations on groups, members, categories,
// transactions and profiles.
//
// Every mutation checks the policy and writes inside one database
// transaction that runs through the event bus, so that the change events
// are only published for committed changes.
package service

import (
	"errors"
	"reflect"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"gorm.io/gorm"
)

// patch copies the named fields from src to dst. Both must be pointers to
// the same struct type. Unknown names are ignored.
func patch(dst, src any, fields []string) {
	d := reflect.ValueOf(dst).Elem()
	s := reflect.ValueOf(src).Elem()

	for _, name := range fields {
		f := d.FieldByName(name)
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		f.Set(s.FieldByName(name))
	}
}

// ownCategory verifies that the category exists and belongs to the actor.
func ownCategory(tx *gorm.DB, actor policy.Actor, id uuid.UUID) error {
	var category models.Category
	err := tx.First(&category, id).Error
	if errors.Is(err, models.ErrResourceNotFound) || (err == nil && category.OwnerUserID != actor.ID) {
		return models.ErrCategoryReference
	}

	return err
}
