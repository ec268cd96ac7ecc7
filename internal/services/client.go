package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/whisperwork/crm/internal/models"
)

const maxSearchResults = 50

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientsNotFound = errors.New("one or both clients not found")
	ErrSameClient      = errors.New("cannot merge a client with itself")
	ErrPhoneInUse      = errors.New("active client with this phone number already exists")
)

// ClientService implements every client-facing operation. Each mutation and
// the audit log entries documenting it are committed in one transaction, so
// a failure never leaves an orphan log entry behind.
type ClientService struct {
	DB    *gorm.DB
	Actor string // recorded as performed_by on every log entry
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{DB: db, Actor: "system"}
}

// CreateClientInput carries already validated, normalized fields.
type CreateClientInput struct {
	Name        string
	PhoneNumber string
	Email       string
	Address     string
	Notes       string
}

// UpdateClientInput models partial updates: nil means "leave untouched".
type UpdateClientInput struct {
	Name        *string
	PhoneNumber *string
	Email       *string
	Address     *string
	Notes       *string
}

func (s *ClientService) appendLog(tx *gorm.DB, clientID uint, action, details string) error {
	entry := models.ClientLog{ClientID: clientID, Action: action, Details: details, PerformedBy: s.Actor}
	return tx.Create(&entry).Error
}

// Create persists a new client unless an active client already holds the
// same normalized phone number. Archived holders do not block creation.
func (s *ClientService) Create(in CreateClientInput) (*models.Client, error) {
	client := models.Client{
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Address:     in.Address,
		Notes:       in.Notes,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Client{}).
			Where("phone_number = ? AND is_archived = ?", in.PhoneNumber, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPhoneInUse
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		return s.appendLog(tx, client.ID, "created", fmt.Sprintf("Client %s created", client.Name))
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns clients in storage order, excluding archived ones unless
// requested.
func (s *ClientService) List(skip, limit int, includeArchived bool) ([]models.Client, error) {
	q := s.DB.Model(&models.Client{})
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var clients []models.Client
	if err := q.Order("id").Offset(skip).Limit(limit).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *ClientService) Get(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Update applies only the fields present in the input and appends a single
// "updated" log entry summarizing every field whose value actually changed.
// A no-op update touches updated_at but writes no log entry.
func (s *ClientService) Update(id uint, in UpdateClientInput) (*models.Client, error) {
	var client models.Client
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		var changes []string
		apply := func(field string, dst *string, src *string) {
			if src == nil {
				return
			}
			if *src != *dst {
				changes = append(changes, fmt.Sprintf("%s: '%s' → '%s'", field, *dst, *src))
			}
			*dst = *src
		}
		apply("name", &client.Name, in.Name)
		apply("phone_number", &client.PhoneNumber, in.PhoneNumber)
		apply("email", &client.Email, in.Email)
		apply("address", &client.Address, in.Address)
		apply("notes", &client.Notes, in.Notes)

		if err := tx.Save(&client).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return s.appendLog(tx, client.ID, "updated", "Client updated: "+strings.Join(changes, ", "))
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Archive soft-deletes a client. Re-archiving an already archived client is
// not an error; it re-logs and leaves the flag set.
func (s *ClientService) Archive(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		client.IsArchived = true
		if err := tx.Save(&client).Error; err != nil {
			return err
		}
		return s.appendLog(tx, client.ID, "archived", fmt.Sprintf("Client %s archived", client.Name))
	})
}

// Merge consolidates the secondary client into the primary: empty fields on
// the primary inherit the secondary's values, populated fields are never
// overwritten, and the secondary ends up archived. Returns the updated
// primary and a description of every inherited field.
func (s *ClientService) Merge(primaryID, secondaryID uint) (*models.Client, []string, error) {
	var primary models.Client
	merged := []string{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var secondary models.Client
		if err := tx.First(&primary, primaryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientsNotFound
			}
			return err
		}
		if err := tx.First(&secondary, secondaryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientsNotFound
			}
			return err
		}
		// Missing clients win over the self-merge check, so equality is
		// only decided once both records are known to exist.
		if primary.ID == secondary.ID {
			return ErrSameClient
		}

		inherit := func(field string, dst *string, src string) {
			if *dst == "" && src != "" {
				*dst = src
				merged = append(merged, fmt.Sprintf("%s: '%s'", field, src))
			}
		}
		inherit("email", &primary.Email, secondary.Email)
		inherit("address", &primary.Address, secondary.Address)
		inherit("notes", &primary.Notes, secondary.Notes)

		secondary.IsArchived = true
		if err := tx.Save(&primary).Error; err != nil {
			return err
		}
		if err := tx.Save(&secondary).Error; err != nil {
			return err
		}

		inherited := "no new data"
		if len(merged) > 0 {
			inherited = strings.Join(merged, ", ")
		}
		if err := s.appendLog(tx, primary.ID, "merged",
			fmt.Sprintf("Merged with client %s (ID: %d). Inherited: %s", secondary.Name, secondary.ID, inherited)); err != nil {
			return err
		}
		return s.appendLog(tx, secondary.ID, "merged_into",
			fmt.Sprintf("Merged into client %s (ID: %d)", primary.Name, primary.ID))
	})
	if err != nil {
		return nil, nil, err
	}
	return &primary, merged, nil
}

// Search matches the query as a case-insensitive substring of name, phone
// number, or email. Archived clients are excluded unless requested; results
// are capped.
func (s *ClientService) Search(query string, includeArchived bool) ([]models.Client, error) {
	q := s.DB.Model(&models.Client{})
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	like := "%" + strings.ToLower(query) + "%"
	q = q.Where("LOWER(name) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	var clients []models.Client
	if err := q.Order("id").Limit(maxSearchResults).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// History returns every log entry for a client, newest first.
func (s *ClientService) History(clientID uint) ([]models.ClientLog, error) {
	if _, err := s.Get(clientID); err != nil {
		return nil, err
	}
	var logs []models.ClientLog
	if err := s.DB.Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ResendInvoice is a stub for the messaging integration: it records the
// action and returns a confirmation, no invoice data is read or sent.
func (s *ClientService) ResendInvoice(clientID uint) (string, error) {
	return s.resendStub(clientID, "invoice_resent", "Last invoice resent to %s", "Invoice resent to %s at %s")
}

// ResendJobSummary mirrors ResendInvoice for job summaries.
func (s *ClientService) ResendJobSummary(clientID uint) (string, error) {
	return s.resendStub(clientID, "job_summary_resent", "Last job summary resent to %s", "Job summary resent to %s at %s")
}

func (s *ClientService) resendStub(clientID uint, action, detailsFmt, messageFmt string) (string, error) {
	var client models.Client
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
		return s.appendLog(tx, client.ID, action, fmt.Sprintf(detailsFmt, client.Name))
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(messageFmt, client.Name, client.PhoneNumber), nil
}
