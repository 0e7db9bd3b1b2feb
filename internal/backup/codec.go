// Package backup codifica y valida el documento portable de backup.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	"inventory-service/internal/models"

	"github.com/go-playground/validator/v10"
)

// Codec serializa y valida documentos de backup
type Codec struct {
	validate *validator.Validate
}

// NewCodec crea un codec con el validator del dominio
func NewCodec() *Codec {
	return &Codec{validate: models.NewValidator()}
}

// Encode serializa el documento como JSON indentado
func (c *Codec) Encode(doc *models.BackupDocument) ([]byte, error) {
	if doc.Items == nil {
		doc.Items = []models.InventoryItem{}
	}
	if doc.Movements == nil {
		doc.Movements = []models.StockMovement{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// Decode parsea y valida un documento. Cualquier problema de forma retorna ErrInvalidBackupFormat.
func (c *Codec) Decode(data []byte) (*models.BackupDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, invalid("document is not a JSON object")
	}

	doc := &models.BackupDocument{}

	if err := decodeList(fields, "items", &doc.Items); err != nil {
		return nil, err
	}
	if err := decodeList(fields, "movements", &doc.Movements); err != nil {
		return nil, err
	}

	if raw, ok := fields["config"]; ok && !isNull(raw) {
		var cfg models.DriveConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, invalid("config: %v", err)
		}
		doc.Config = &cfg
	}

	if raw, ok := fields["version"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Version); err != nil {
			return nil, invalid("version: %v", err)
		}
	}
	if raw, ok := fields["exportedAt"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.ExportedAt); err != nil {
			return nil, invalid("exportedAt: %v", err)
		}
	}

	for i := range doc.Items {
		if err := c.validate.Struct(&doc.Items[i]); err != nil {
			return nil, invalid("items[%d]: %v", i, err)
		}
	}
	for i := range doc.Movements {
		if err := c.validate.Struct(&doc.Movements[i]); err != nil {
			return nil, invalid("movements[%d]: %v", i, err)
		}
	}

	return doc, nil
}

// decodeList exige que el campo exista y sea un array JSON
func decodeList(fields map[string]json.RawMessage, name string, dst interface{}) error {
	raw, ok := fields[name]
	if !ok {
		return invalid("missing %q list", name)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return invalid("%q is not a list", name)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return invalid("%s: %v", name, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidBackupFormat, fmt.Sprintf(format, args...))
}
