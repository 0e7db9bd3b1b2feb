package services

import (
	"context"
	"fmt"

	"inventory-service/internal/backup"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// BackupService exporta/importa el contenido completo y administra la configuración de sincronización
type BackupService interface {
	ExportAll(ctx context.Context) ([]byte, error)
	ImportAll(ctx context.Context, data []byte) (*models.ImportSummary, error)

	GetConfig(ctx context.Context) (models.DriveConfig, error)
	UpdateConfig(ctx context.Context, cfg models.DriveConfig) (models.DriveConfig, error)
	MarkSynced(ctx context.Context) (models.DriveConfig, error)
}

type backupService struct {
	store  repository.Store
	codec  *backup.Codec
	logger *zap.Logger
}

// NewBackupService crea una nueva instancia del servicio
func NewBackupService(store repository.Store, logger *zap.Logger) BackupService {
	return &backupService{
		store:  store,
		codec:  backup.NewCodec(),
		logger: logger,
	}
}

// ExportAll serializa items, movimientos y config en un documento versionado
func (s *backupService) ExportAll(ctx context.Context) ([]byte, error) {
	logger := s.logger.With(zap.String("operation", "export_all"))

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read movements: %w", err)
	}
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	data, err := s.codec.Encode(&models.BackupDocument{
		Items:      items,
		Movements:  movements,
		Config:     &cfg,
		Version:    models.BackupVersion,
		ExportedAt: models.Now(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Backup exported",
		zap.Int("items", len(items)),
		zap.Int("movements", len(movements)),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

// ImportAll valida el documento completo y luego hace merge en una única transacción
func (s *backupService) ImportAll(ctx context.Context, data []byte) (*models.ImportSummary, error) {
	logger := s.logger.With(zap.String("operation", "import_all"))

	doc, err := s.codec.Decode(data)
	if err != nil {
		logger.Warn("Rejected backup document", zap.Error(err))
		return nil, err
	}

	if err := s.store.ImportAll(ctx, doc.Items, doc.Movements, doc.Config); err != nil {
		logger.Error("Failed to import backup", zap.Error(err))
		return nil, fmt.Errorf("failed to import backup: %w", err)
	}

	summary := &models.ImportSummary{
		Items:         len(doc.Items),
		Movements:     len(doc.Movements),
		ConfigUpdated: doc.Config != nil,
		Version:       doc.Version,
	}

	logger.Info("Backup imported",
		zap.Int("items", summary.Items),
		zap.Int("movements", summary.Movements),
		zap.Bool("config_updated", summary.ConfigUpdated),
	)
	return summary, nil
}

// GetConfig retorna la configuración guardada o la por defecto
func (s *backupService) GetConfig(ctx context.Context) (models.DriveConfig, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return models.DriveConfig{}, fmt.Errorf("failed to get config: %w", err)
	}
	return cfg, nil
}

// UpdateConfig reemplaza la configuración conservando lastSync si no viene informado
func (s *backupService) UpdateConfig(ctx context.Context, cfg models.DriveConfig) (models.DriveConfig, error) {
	if cfg.LastSync == nil {
		current, err := s.GetConfig(ctx)
		if err != nil {
			return models.DriveConfig{}, err
		}
		cfg.LastSync = current.LastSync
	}

	if err := s.store.PutConfig(ctx, cfg); err != nil {
		return models.DriveConfig{}, fmt.Errorf("failed to update config: %w", err)
	}

	s.logger.Info("Sync config updated", zap.Bool("has_client_id", cfg.ClientID != ""))
	return cfg, nil
}

// MarkSynced registra lastSync con el instante actual
func (s *backupService) MarkSynced(ctx context.Context) (models.DriveConfig, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return models.DriveConfig{}, err
	}

	now := models.Now()
	cfg.LastSync = &now

	if err := s.store.PutConfig(ctx, cfg); err != nil {
		return models.DriveConfig{}, fmt.Errorf("failed to record last sync: %w", err)
	}
	return cfg, nil
}
