package logging

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeSystemLogs deletes system_logs recorded before cutoff.
func PurgeSystemLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
