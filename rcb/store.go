package rcb

import (
	"context"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// SNAPSHOT - The persisted document per period key
// =============================================================================

// Snapshot is the exact shape handed to and received from the storage
// collaborator for one register period.
type Snapshot struct {
	Settings              AccountSchema `json:"settings"`
	Metadata              Metadata      `json:"metadata"`
	Entries               []LedgerEntry `json:"entries"`
	IsEditingPeriodClosed bool          `json:"isEditingPeriodClosed"`
	SignedPdfURL          *string       `json:"signedPdfUrl"`
}

// =============================================================================
// STORE - Persistence collaborator interface
// =============================================================================

// Store persists period snapshots keyed by period key. Last write wins;
// there is no version field on snapshots and no conflict detection. A
// failed save must leave the stored snapshot unchanged.
type Store interface {
	// LoadPeriod returns the snapshot for the key, or fiscal.ErrRecordNotFound.
	LoadPeriod(ctx context.Context, key fiscal.PeriodKey) (Snapshot, error)

	// SavePeriod writes the full snapshot for the key.
	SavePeriod(ctx context.Context, key fiscal.PeriodKey, snapshot Snapshot) error

	// ListPeriods returns every key with a persisted snapshot.
	ListPeriods(ctx context.Context) ([]fiscal.PeriodKey, error)

	// DeletePeriod removes the snapshot for the key. Missing keys are not
	// an error.
	DeletePeriod(ctx context.Context, key fiscal.PeriodKey) error
}
