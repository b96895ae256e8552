package report

import (
	"time"

	"github.com/google/uuid"
)

// SyncReport is one branch's aggregate outcome for one sync cycle: how many
// transactions reached the consolidated store. Branches publish these
// fire-and-forget; the consolidator keeps them as the operator-facing record
// of sync health.
type SyncReport struct {
	ReportID    uuid.UUID `json:"report_id" bson:"report_id"`
	BranchID    string    `json:"branch_id" bson:"branch_id"`
	SyncedCount int       `json:"synced_count" bson:"synced_count"`
	ReportedAt  time.Time `json:"reported_at" bson:"reported_at"`
}

// NewSyncReport builds a report for one completed cycle
func NewSyncReport(branchID string, syncedCount int) *SyncReport {
	return &SyncReport{
		ReportID:    uuid.New(),
		BranchID:    branchID,
		SyncedCount: syncedCount,
		ReportedAt:  time.Now().UTC(),
	}
}
