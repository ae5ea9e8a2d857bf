package store

import "github.com/EpicMandM/esxi-inventory/internal/models"

// Store receives finished VM records, one at a time, in scan order.
type Store interface {
	Append(rec *models.VMRecord) error
	Path() string
	Close() error
}
