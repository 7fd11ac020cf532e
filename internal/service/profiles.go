package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/policy"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Profiles keeps the local copy of the accounts of the authentication service.
type Profiles struct {
	db *gorm.DB
}

func NewProfiles(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

// Ensure creates the profile for a verified identity or updates its email
// address when it changed.
func (s *Profiles) Ensure(ctx context.Context, id uuid.UUID, email string) (models.Profile, error) {
	var profile models.Profile

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&profile, id).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			profile = models.Profile{ID: id, Email: email}
			log.Debug().Str("user", id.String()).Msg("creating profile")
			return tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}

		if profile.Email == models.NormalizeEmail(email) {
			return nil
		}

		profile.Email = email
		return tx.Save(&profile).Error
	})
	if err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

// Get returns the profile of the actor.
func (s *Profiles) Get(ctx context.Context, actor policy.Actor) (models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, actor.ID).Error
	return profile, err
}
