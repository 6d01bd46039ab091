package member

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/smileworthy/benefix/storage"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// LedgerOptions contains the configuration for the member Ledger
type LedgerOptions struct {
	Store  storage.Store
	Logger *zap.Logger
}

// Ledger is the authoritative keyed store of member records. It is a
// single-process, single-writer structure: every operation serializes through
// one mutex so an upsert, a removal, and an extract snapshot can never
// interleave and drop an update. State persists synchronously to the backing
// store as one pretty-printed JSON object keyed by email, so the file stays
// human-diffable.
type Ledger struct {
	LedgerOptions

	mu      sync.Mutex
	records map[string]*MemberRecord
	keys    []string // insertion order of records, stable within a process run
}

// NewLedger loads the ledger from the backing store. Missing or corrupt state
// is never fatal: the ledger starts empty and logs a warning.
func NewLedger(option LedgerOptions) (*Ledger, error) {
	if option.Store == nil {
		return nil, fmt.Errorf("nil Store is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}

	l := &Ledger{
		LedgerOptions: option,
		records:       make(map[string]*MemberRecord),
		keys:          make([]string, 0),
	}
	l.load()

	return l, nil
}

func (l *Ledger) load() {
	data, err := l.Store.ReadAll()
	if err != nil {
		if extErrors.Is(err, os.ErrNotExist) {
			l.Logger.Info("No existing ledger state, starting empty")
		} else {
			l.Logger.Warn("Cannot read ledger state, starting empty",
				zap.Error(err),
			)
		}
		return
	}

	loaded := make(map[string]*MemberRecord)
	if err := json.Unmarshal(data, &loaded); err != nil {
		l.Logger.Warn("Ledger state is corrupt, starting empty",
			zap.Error(err),
		)
		return
	}

	keys := make([]string, 0, len(loaded))
	for email := range loaded {
		keys = append(keys, email)
	}
	// map iteration order is random; sort so a reload is deterministic
	sort.Strings(keys)

	l.records = loaded
	l.keys = keys
}

// persist must be called with the mutex held
func (l *Ledger) persist() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return extErrors.Wrap(err, "Cannot serialize ledger")
	}
	if err := l.Store.WriteAll(data); err != nil {
		return extErrors.Wrap(err, "Cannot persist ledger")
	}
	return nil
}

// Upsert replaces any existing record under the same email and persists
// before returning. On a persistence failure the in-memory state is rolled
// back so memory and disk never silently diverge, and the error is returned
// for the caller to surface.
func (l *Ledger) Upsert(ctx context.Context, record *MemberRecord) error {
	if record == nil {
		return fmt.Errorf("nil record is invalid")
	}
	if len(record.Email) == 0 {
		return fmt.Errorf("record without an email is invalid")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToLower(record.Email)
	prior, existed := l.records[key]

	copied := *record
	l.records[key] = &copied
	if !existed {
		l.keys = append(l.keys, key)
	}

	if err := l.persist(); err != nil {
		if existed {
			l.records[key] = prior
		} else {
			delete(l.records, key)
			l.keys = l.keys[:len(l.keys)-1]
		}
		l.Logger.Error("Unable to persist ledger after upsert",
			zap.String("Email", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Remove deletes the record keyed by email and persists before returning.
// Removing an absent email is a no-op, not an error.
func (l *Ledger) Remove(ctx context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToLower(email)
	prior, existed := l.records[key]
	if !existed {
		return nil
	}

	index := -1
	for k, existing := range l.keys {
		if existing == key {
			index = k
			break
		}
	}
	delete(l.records, key)
	if index >= 0 {
		l.keys = append(l.keys[:index], l.keys[index+1:]...)
	}

	if err := l.persist(); err != nil {
		l.records[key] = prior
		if index >= 0 {
			l.keys = append(l.keys, "")
			copy(l.keys[index+1:], l.keys[index:])
			l.keys[index] = key
		}
		l.Logger.Error("Unable to persist ledger after removal",
			zap.String("Email", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Get returns a copy of the record keyed by email, or nil if absent
func (l *Ledger) Get(ctx context.Context, email string) *MemberRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[strings.ToLower(email)]
	if !ok {
		return nil
	}
	copied := *record
	return &copied
}

// All returns a snapshot of every record in insertion order. The snapshot is
// a copy: extract generation reads it without holding the ledger lock.
func (l *Ledger) All(ctx context.Context) []MemberRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]MemberRecord, 0, len(l.keys))
	for _, key := range l.keys {
		if record, ok := l.records[key]; ok {
			snapshot = append(snapshot, *record)
		}
	}
	return snapshot
}

// Count returns the number of records currently in the ledger
func (l *Ledger) Count(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
