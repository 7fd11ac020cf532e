package policy

import (
	"github.com/ledgerly/backend/internal/models"
	"gorm.io/gorm"
)

// memberGroups selects the IDs of the groups the actor is a member of.
func memberGroups(db *gorm.DB, actor Actor) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.GroupMember{}).
		Select("group_id").
		Where("user_id = ?", actor.ID)
}

// VisibleGroups limits a query on groups to the ones the actor can read.
func VisibleGroups(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(db.Session(&gorm.Session{NewDB: true}).
			Where("created_by = ?", actor.ID).
			Or("id IN (?)", memberGroups(db, actor)))
	}
}

// VisibleTransactions limits a query on transactions to the ones the actor can read.
func VisibleTransactions(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(db.Session(&gorm.Session{NewDB: true}).
			Where("user_id = ?", actor.ID).
			Or("group_id IN (?)", memberGroups(db, actor)))
	}
}

// VisibleCategories limits a query on categories to the ones the actor can read.
func VisibleCategories(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		fresh := db.Session(&gorm.Session{NewDB: true})

		inTransactions := fresh.Model(&models.Transaction{}).
			Select("category_id").
			Where("category_id IS NOT NULL AND group_id IN (?)", memberGroups(db, actor))

		inGroupBudgets := fresh.Model(&models.GroupBudget{}).
			Select("category_id").
			Where("group_id IN (?)", memberGroups(db, actor))

		return db.Where(fresh.
			Where("owner_user_id = ?", actor.ID).
			Or("id IN (?)", inTransactions).
			Or("id IN (?)", inGroupBudgets))
	}
}

// VisibleInvitations limits a query on invitations to the ones the actor
// sent or received.
func VisibleInvitations(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("invited_by = ? OR invited_user_id = ?", actor.ID, actor.ID)
	}
}
