package models

// ConfigKey clave fija de la fila única en la tabla config
const ConfigKey = "driveConfig"

// DriveConfig configuración de sincronización/exportación
type DriveConfig struct {
	ClientID string     `json:"clientId"`
	APIKey   string     `json:"apiKey"`
	FolderID string     `json:"folderId,omitempty"`
	LastSync *Timestamp `json:"lastSync,omitempty"`
}

// DefaultDriveConfig configuración vacía usada antes del primer guardado
func DefaultDriveConfig() DriveConfig {
	return DriveConfig{ClientID: "", APIKey: ""}
}
