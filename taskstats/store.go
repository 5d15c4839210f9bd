// store.go
//
// Offline persistence of the sample log: raw samples go to SQLite for ad-hoc
// querying, and a per-kind aggregate goes out as JSON for quick inspection
// of a run.

package taskstats

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
)

// FlushToDB writes every record into the exec_samples table of the SQLite
// database at path, creating the table when missing.  One transaction, one
// prepared statement — sample logs run into the millions.
func FlushToDB(path string, records []Record) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS exec_samples (
		tid      INTEGER NOT NULL,
		worker   INTEGER NOT NULL,
		kind     INTEGER NOT NULL,
		weight   REAL    NOT NULL,
		start_ns INTEGER NOT NULL,
		stop_ns  INTEGER NOT NULL
	)`)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO exec_samples (tid, worker, kind, weight, start_ns, stop_ns) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for i := range records {
		r := &records[i]
		if _, err = stmt.Exec(r.Tid, r.Worker, r.Kind, r.Weight, r.Start, r.Stop); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}
	if err = stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// KindSummary aggregates execution time for one task kind.
type KindSummary struct {
	Kind      uint8   `json:"kind"`
	Count     int64   `json:"count"`
	TotalNs   int64   `json:"total_ns"`
	MinNs     int64   `json:"min_ns"`
	MaxNs     int64   `json:"max_ns"`
	WeightSum float64 `json:"weight_sum"`
}

// Summary is the JSON-facing aggregate of a whole run.
type Summary struct {
	Samples int64         `json:"samples"`
	WallNs  int64         `json:"wall_ns"` // earliest start to latest stop
	Kinds   []KindSummary `json:"kinds"`
}

// Summarize folds the sample log into per-kind aggregates.  Kinds appear in
// ascending order; kinds with no samples are omitted.
func Summarize(records []Record) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	var byKind [256]KindSummary
	present := [256]bool{}
	first, last := records[0].Start, records[0].Stop

	for i := range records {
		r := &records[i]
		dur := r.Stop - r.Start
		k := &byKind[r.Kind]
		if !present[r.Kind] {
			present[r.Kind] = true
			k.Kind = r.Kind
			k.MinNs = dur
			k.MaxNs = dur
		}
		k.Count++
		k.TotalNs += dur
		if dur < k.MinNs {
			k.MinNs = dur
		}
		if dur > k.MaxNs {
			k.MaxNs = dur
		}
		k.WeightSum += float64(r.Weight)

		if r.Start < first {
			first = r.Start
		}
		if r.Stop > last {
			last = r.Stop
		}
	}

	s.Samples = int64(len(records))
	s.WallNs = last - first
	for k := 0; k < 256; k++ {
		if present[k] {
			s.Kinds = append(s.Kinds, byKind[k])
		}
	}
	return s
}

// SummaryJSON renders the run aggregate as JSON.
func SummaryJSON(records []Record) ([]byte, error) {
	return sonnet.Marshal(Summarize(records))
}
