package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/fileio"
)

const (
	CollectionLeads         = "leads"
	CollectionOpportunities = "opportunities"
)

// ImportLeads parses an uploaded file and appends the valid leads in a
// single commit. Row errors do not block the valid rows.
func (c *Coordinator) ImportLeads(ctx context.Context, filename string, content []byte) (fileio.ImportResult, error) {
	res := fileio.ParseLeads(filename, content, c.now())
	if !res.Success {
		c.logger.Warn("📄 arquivo de importação rejeitado",
			zap.String("file", filename), zap.Strings("errors", res.Errors))
		c.notify(ctx, entity.NotificationError, "Import Failed", res.Errors[0])
		return res, &DomainError{Code: "INVALID_FILE", Message: res.Errors[0]}
	}

	if len(res.Data) > 0 {
		err := c.loading(ctx, func() error {
			if err := c.remote.Commit(ctx, "importLeads"); err != nil {
				return err
			}
			return c.ctrl.Dispatch(ctx, AddLeads{Leads: res.Data})
		})
		if err != nil {
			c.logger.Error("❌ importação falhou", zap.String("file", filename), zap.Error(err))
			c.notify(ctx, entity.NotificationError, "Import Failed", reason(err))
			return fileio.ImportResult{Data: []entity.Lead{}, Errors: []string{reason(err)}}, err
		}
		c.metrics.RecordImportedLeads(res.ImportedCount)
	}

	c.logger.Info("📥 leads importados",
		zap.String("file", filename),
		zap.Int("imported", res.ImportedCount),
		zap.Int("rejected", len(res.Errors)))

	switch {
	case len(res.Errors) > 0:
		c.notify(ctx, entity.NotificationWarning, "Import Completed with Errors",
			fmt.Sprintf("Imported %d leads with %d errors.", res.ImportedCount, len(res.Errors)))
	case res.ImportedCount == 0:
		c.notify(ctx, entity.NotificationInfo, "Nothing to Import", "The file did not contain any leads.")
	default:
		c.notify(ctx, entity.NotificationSuccess, "Import Successful",
			fmt.Sprintf("Successfully imported %d leads.", res.ImportedCount))
	}
	return res, nil
}

// Export writes a whole collection, ignoring filters, in the given format.
func (c *Coordinator) Export(ctx context.Context, w io.Writer, collection string, f fileio.Format) error {
	s := c.ctrl.Get()

	var err error
	switch collection {
	case CollectionLeads:
		err = fileio.ExportLeads(w, s.Leads, f)
	case CollectionOpportunities:
		err = fileio.ExportOpportunities(w, s.Opportunities, f)
	default:
		err = fmt.Errorf("unknown collection %q", collection)
	}
	if err != nil {
		c.logger.Error("❌ exportação falhou", zap.String("collection", collection), zap.Error(err))
		c.notify(ctx, entity.NotificationError, "Export Failed", err.Error())
		return err
	}

	c.notify(ctx, entity.NotificationSuccess, "Export Successful",
		strings.ToUpper(collection[:1])+collection[1:]+" have been exported successfully.")
	return nil
}

// ============ BACKUP ============

// ExportStore receives finished files. Put returns where the file ended up.
type ExportStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type Snapshot struct {
	TakenAt       time.Time            `json:"takenAt"`
	Leads         []entity.Lead        `json:"leads"`
	Opportunities []entity.Opportunity `json:"opportunities"`
}

type BackupUseCase struct {
	ctrl   *Controller
	store  ExportStore
	logger *zap.Logger
	now    func() time.Time
}

func NewBackupUseCase(ctrl *Controller, store ExportStore, logger *zap.Logger) *BackupUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupUseCase{
		ctrl:   ctrl,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Execute writes both collections as one JSON document named after the
// snapshot time.
func (uc *BackupUseCase) Execute(ctx context.Context) (string, error) {
	s := uc.ctrl.Get()
	snap := Snapshot{TakenAt: uc.now(), Leads: s.Leads, Opportunities: s.Opportunities}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := "backup-" + snap.TakenAt.Format("20060102T150405Z") + ".json"
	location, err := uc.store.Put(ctx, name, buf.Bytes(), fileio.FormatJSON.ContentType())
	if err != nil {
		return "", &TechnicalError{Code: "BACKUP_FAILED", Message: "Failed to store backup", Err: err}
	}

	uc.logger.Info("💾 backup gravado",
		zap.String("location", location),
		zap.Int("leads", len(snap.Leads)),
		zap.Int("opportunities", len(snap.Opportunities)))
	return location, nil
}
