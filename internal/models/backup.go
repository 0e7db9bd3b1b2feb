package models

// BackupVersion versión actual del formato de backup
const BackupVersion = 1

// BackupDocument documento portable con todo el contenido del store
type BackupDocument struct {
	Items      []InventoryItem `json:"items"`
	Movements  []StockMovement `json:"movements"`
	Config     *DriveConfig    `json:"config,omitempty"`
	Version    int             `json:"version"`
	ExportedAt Timestamp       `json:"exportedAt"`
}

// ImportSummary resumen de una importación aplicada
type ImportSummary struct {
	Items         int  `json:"items"`
	Movements     int  `json:"movements"`
	ConfigUpdated bool `json:"config_updated"`
	Version       int  `json:"version"`
}
