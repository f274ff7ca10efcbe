// Package reconcile keeps the persisted document cache in step with the
// live file set, re-parsing only the files whose fingerprint moved.
package reconcile

import (
	"fmt"
	"log"
	"sort"

	"github.com/bjeber/docfind/internal/docs"
	"github.com/bjeber/docfind/internal/fingerprint"
	"github.com/bjeber/docfind/internal/store"
)

// Delta classifies the current file set against the cached document set.
// The four classes partition the union of cached and current paths.
type Delta struct {
	Added     []string
	Changed   []string
	Removed   []string
	Unchanged []string
}

// Empty reports whether nothing was added, changed, or removed.
func (d *Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Summary renders the counts-only operator line.
func (d *Delta) Summary() string {
	return fmt.Sprintf("documents: %d added, %d changed, %d removed, %d unchanged",
		len(d.Added), len(d.Changed), len(d.Removed), len(d.Unchanged))
}

// Reconcile produces the up-to-date document list for a file set,
// reusing cached records whose fingerprint is unchanged and parsing only
// the delta. When the delta is non-empty the updated cache is persisted
// and a counts-only summary is logged. A failed cache save degrades to
// an unpersisted (but correct) document list.
func Reconcile(storeDir string, files []docs.FileEntry) ([]*docs.DocumentRecord, *Delta, error) {
	cache := store.LoadDocCache(storeDir)
	delta := &Delta{}

	current := make(map[string]bool, len(files))
	updated := make(map[string]*docs.DocumentRecord, len(files))

	for _, f := range files {
		current[f.Path] = true

		hash := fingerprint.File(f.Path)
		if hash == fingerprint.Missing {
			// Vanished between discovery and stat; treat as absent.
			continue
		}

		cached, ok := cache.Documents[f.Path]
		if ok && cached.Hash == hash {
			delta.Unchanged = append(delta.Unchanged, f.Path)
			updated[f.Path] = cached
			continue
		}

		rec, err := docs.ParseFile(f.Path, f.RelPath)
		if err != nil {
			// Unreadable file: exclude it rather than fail the run.
			continue
		}
		rec.Hash = hash
		updated[f.Path] = rec

		if ok {
			delta.Changed = append(delta.Changed, f.Path)
		} else {
			delta.Added = append(delta.Added, f.Path)
		}
	}

	for path := range cache.Documents {
		if !current[path] {
			delta.Removed = append(delta.Removed, path)
		}
	}

	if !delta.Empty() {
		cache.Documents = updated
		if err := store.SaveDocCache(storeDir, cache); err != nil {
			log.Printf("warning: could not persist document cache: %v", err)
		}
		log.Println(delta.Summary())
	}

	records := make([]*docs.DocumentRecord, 0, len(updated))
	for _, rec := range updated {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	return records, delta, nil
}
