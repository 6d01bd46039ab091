package extract

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/smileworthy/benefix/member"
	"github.com/smileworthy/benefix/transport"

	"github.com/google/uuid"
	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ManagerOptions contains the configuration for the extract Manager
type ManagerOptions struct {
	Ledger          *member.Ledger
	Transport       transport.Transport
	ParentGroupCode string
	GroupCode       string
	StagingDir      string
	Logger          *zap.Logger
}

// Manager snapshots the ledger, stages extract files locally, and hands them
// to the transport. Each generation stages under its own directory so
// concurrent triggers for the same calendar day never clobber each other.
type Manager struct {
	ManagerOptions
}

// NewManager returns an extract Manager
func NewManager(option ManagerOptions) (*Manager, error) {
	if option.Ledger == nil {
		return nil, fmt.Errorf("nil Ledger is invalid")
	}
	if option.Transport == nil {
		return nil, fmt.Errorf("nil Transport is invalid")
	}
	if len(option.ParentGroupCode) == 0 {
		return nil, fmt.Errorf("empty ParentGroupCode is invalid")
	}
	if len(option.GroupCode) == 0 {
		return nil, fmt.Errorf("empty GroupCode is invalid")
	}
	if len(option.StagingDir) == 0 {
		return nil, fmt.Errorf("empty StagingDir is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	if err := os.MkdirAll(option.StagingDir, 0755); err != nil {
		return nil, extErrors.Wrap(err, "Cannot create staging directory")
	}
	return &Manager{
		ManagerOptions: option,
	}, nil
}

// GenerateEligibility emits the entire current ledger as an eligibility file
// and hands it to the transport. The file name always carries the "full"
// suffix: the partner contract names a delta mode, but this service
// regenerates the full ledger on every trigger.
//
// A delivery failure is logged and does not fail the generation; the ledger
// mutation that triggered it has already been persisted.
func (m *Manager) GenerateEligibility(ctx context.Context) (string, error) {
	now := time.Now()
	records := m.Ledger.All(ctx)
	body := EncodeEligibility(records)
	name := EligibilityFileName(m.ParentGroupCode, now, ModeFull)

	staged, err := m.stage(name, body)
	if err != nil {
		return "", err
	}

	m.Logger.Info("Generated eligibility extract",
		zap.String("FileName", name),
		zap.Int("Records", len(records)),
	)
	m.handoff(ctx, staged, name)

	return staged, nil
}

// GenerateSDF emits the currently active members as a fixed-width SDF file
// and hands it to the transport.
func (m *Manager) GenerateSDF(ctx context.Context, now time.Time) (string, error) {
	records := m.Ledger.All(ctx)
	body := EncodeSDF(records, now, m.Logger)
	name := SDFFileName(m.GroupCode, now)

	staged, err := m.stage(name, body)
	if err != nil {
		return "", err
	}

	m.Logger.Info("Generated SDF extract",
		zap.String("FileName", name),
		zap.Int("Records", len(records)),
	)
	m.handoff(ctx, staged, name)

	return staged, nil
}

// stage writes the file body under a fresh uuid-named directory and returns
// the staged path
func (m *Manager) stage(name string, body string) (string, error) {
	dir := filepath.Join(m.StagingDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", extErrors.Wrap(err, "Cannot create staging directory for extract")
	}
	staged := filepath.Join(dir, name)
	if err := ioutil.WriteFile(staged, []byte(body), 0644); err != nil {
		return "", extErrors.Wrap(err, "Cannot stage extract file")
	}
	return staged, nil
}

func (m *Manager) handoff(ctx context.Context, staged string, name string) {
	if err := m.Transport.Deliver(ctx, staged, name); err != nil {
		m.Logger.Error("Unable to deliver extract file",
			zap.String("FileName", name),
			zap.Error(err),
		)
	}
}
