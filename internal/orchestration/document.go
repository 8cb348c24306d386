package orchestration

import (
	"time"

	"github.com/agbru/dwsim/internal/export"
)

// Document converts the successful replicas of b into an export document.
func (b Batch) Document(createdAt time.Time) export.Document {
	doc := export.Document{
		BatchID:   b.ID,
		CreatedAt: createdAt,
		Params:    b.Config.Simulation(),
		Pooled:    b.Pooled.Counts,
	}
	for _, r := range b.Succeeded() {
		doc.Runs = append(doc.Runs, export.Run{
			RunID:     r.RunID,
			Index:     r.Index,
			Seed:      r.Seed,
			Clusters:  r.Clusters,
			Summary:   r.Summary,
			Final:     r.Final,
			Snapshots: r.Snapshots,
		})
	}
	return doc
}
