package models

// RemoteConfig stores client-facing configuration values
type RemoteConfig struct {
	Base
	Key   string `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
	Type  string `gorm:"size:20;default:'string'" json:"type"` // string, bool, int, json
}

// TableName specifies the table name for RemoteConfig
func (RemoteConfig) TableName() string {
	return "remote_configs"
}
