package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

// SQLiteWriter stores reports in a SQLite database: one row per run in
// `runs` and one row per retired process in `processes`. Reports are
// buffered and written on Flush; a pending buffer is also flushed when the
// program leaves through atexit.
type SQLiteWriter struct {
	*sql.DB
	runStatement     *sql.Stmt
	processStatement *sql.Stmt

	mu      sync.Mutex
	path    string
	pending []*Report
	closed  bool
}

// NewSQLiteWriter creates the database at path. An empty path picks
// pagesim_<xid>.sqlite3 in the working directory. An existing file is an
// error so separate runs never mix.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if path == "" {
		path = "pagesim_" + xid.New().String() + ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("database %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	w := &SQLiteWriter{DB: db, path: path}
	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			logrus.Errorf("flushing %s: %v", w.path, err)
		}
	})
	logrus.Infof("Results are collected in database %s", path)
	return w, nil
}

func (w *SQLiteWriter) createTables() error {
	stmts := []string{
		`CREATE TABLE runs (
			run_id             TEXT PRIMARY KEY,
			policy             TEXT NOT NULL,
			seed               INTEGER,
			stop               TEXT,
			total_cycles       INTEGER,
			ticks              INTEGER,
			processes_created  INTEGER,
			processes_done     INTEGER,
			total_instructions INTEGER,
			total_waits        INTEGER,
			free_pages         INTEGER,
			clean_pages        INTEGER,
			dirty_pages        INTEGER,
			config             TEXT
		)`,
		`CREATE TABLE processes (
			run_id             TEXT NOT NULL REFERENCES runs(run_id),
			pid                INTEGER NOT NULL,
			cycles_to_go       INTEGER,
			total_instructions INTEGER,
			total_wait_cycles  INTEGER,
			frames             INTEGER,
			pages_mapped       INTEGER,
			free_pages         INTEGER,
			clean_pages        INTEGER,
			dirty_pages        INTEGER,
			PRIMARY KEY (run_id, pid)
		)`,
	}
	for _, s := range stmts {
		if _, err := w.Exec(s); err != nil {
			return fmt.Errorf("creating tables in %s: %w", w.path, err)
		}
	}
	return nil
}

func (w *SQLiteWriter) prepareStatements() error {
	var err error
	w.runStatement, err = w.Prepare(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing run insert: %w", err)
	}
	w.processStatement, err = w.Prepare(`INSERT INTO processes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing process insert: %w", err)
	}
	return nil
}

// Write buffers a report.
func (w *SQLiteWriter) Write(r *Report) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, r)
}

// Flush writes all buffered reports in one transaction. Safe to call after
// Close, when it does nothing.
func (w *SQLiteWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || len(w.pending) == 0 {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, r := range w.pending {
		if err := insertReport(tx, w.runStatement, w.processStatement, r); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reports: %w", err)
	}
	w.pending = nil
	return nil
}

func insertReport(tx *sql.Tx, runStmt, procStmt *sql.Stmt, r *Report) error {
	cfg, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = tx.Stmt(runStmt).Exec(
		r.RunID, r.Policy, r.Seed, string(r.Stop), r.Clock, r.Ticks,
		r.ProcessesCreated, r.ProcessesDone, r.TotalInstructions, r.TotalWaits,
		r.Evictions.FreePagesReturned, r.Evictions.CleanPagesReturned, r.Evictions.DirtyPagesReturned,
		string(cfg),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", r.RunID, err)
	}
	ps := tx.Stmt(procStmt)
	for _, p := range r.Processes {
		_, err := ps.Exec(
			r.RunID, p.PID, p.CyclesToGo, p.TotalInstructions, p.TotalWaitCycles,
			p.Frames, p.PagesMapped,
			p.Evictions.FreePagesReturned, p.Evictions.CleanPagesReturned, p.Evictions.DirtyPagesReturned,
		)
		if err != nil {
			return fmt.Errorf("inserting process %d of run %s: %w", p.PID, r.RunID, err)
		}
	}
	return nil
}

// Close flushes pending reports and closes the database.
func (w *SQLiteWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.DB.Close()
}
