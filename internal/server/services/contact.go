package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/cache"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
)

// contactListCacheTTL bounds how stale a cached contact page may get.
const contactListCacheTTL = 10 * time.Minute

// ContactService implements address-book operations on top of the contact
// repository, with a TTL cache in front of list reads. Mutations invalidate
// the owner's whole cache namespace.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	logger      logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache, logger logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, cache: c, logger: logger}
}

// Create inserts a new contact for ownerID. A duplicate email within the
// owner's book yields common.ErrorAlreadyExists.
func (s *ContactService) Create(ctx context.Context, contact *models.Contact, ownerID string) (*models.Contact, error) {
	contact.OwnerID = ownerID
	created, err := s.repomanager.Contacts(s.db).Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return created, nil
}

// Get returns the contact with the given id owned by ownerID.
func (s *ContactService) Get(ctx context.Context, id, ownerID string) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).GetByID(ctx, id, ownerID)
}

// List returns one page of ownerID's contacts, served from cache when a
// fresh copy exists.
func (s *ContactService) List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Contact, error) {
	key := listCacheKey(ownerID, skip, limit)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached []*models.Contact
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Warn(ctx, "contact cache read failed", "error", err)
	}

	list, err := s.repomanager.Contacts(s.db).List(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, key, data, contactListCacheTTL); err != nil {
			s.logger.Warn(ctx, "contact cache write failed", "error", err)
		}
	}
	return list, nil
}

// Update replaces the mutable fields of an owned contact.
func (s *ContactService) Update(ctx context.Context, contact *models.Contact, ownerID string) (*models.Contact, error) {
	contact.OwnerID = ownerID
	updated, err := s.repomanager.Contacts(s.db).Update(ctx, contact)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return updated, nil
}

// Delete removes an owned contact.
func (s *ContactService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repomanager.Contacts(s.db).Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// UpcomingBirthdays returns ownerID's contacts with a birthday in the next
// days days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID string, days int) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).UpcomingBirthdays(ctx, ownerID, days)
}

// Admin reads span every owner.

func (s *ContactService) GetAdmin(ctx context.Context, id string) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).GetByIDAdmin(ctx, id)
}

func (s *ContactService) ListAdmin(ctx context.Context, skip, limit int) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).ListAdmin(ctx, skip, limit)
}

func (s *ContactService) UpcomingBirthdaysAdmin(ctx context.Context, days int) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).UpcomingBirthdaysAdmin(ctx, days)
}

func listCacheKey(ownerID string, skip, limit int) string {
	return fmt.Sprintf("contacts:%s:%d:%d", ownerID, skip, limit)
}

func (s *ContactService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePrefix(ctx, fmt.Sprintf("contacts:%s:", ownerID)); err != nil {
		s.logger.Warn(ctx, "contact cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
