package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		RequestID: ev.RequestID,
		UserID:    ev.UserID,
		Role:      ev.Role,
		Action:    ev.Action,
		Method:    ev.Method,
		Path:      ev.Path,
		Status:    ev.Status,
		Metadata:  metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// Filter narrows Query. Zero fields are ignored; To is inclusive of the whole day.
type Filter struct {
	Action string
	UserID string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

// Query lists audit rows newest first and reports the unpaginated total.
func (l *Logger) Query(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	q := l.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To.Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	var rows []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return rows, total, nil
}

// Classify names the broad cause of a failed audit write for logging.
func Classify(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 {
		switch pgErr.Code[:2] {
		case "08":
			return "connection"
		case "22", "23":
			return "data"
		case "42":
			return "schema"
		case "53":
			return "resources"
		}
		return "postgres_" + pgErr.Code
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unknown"
}
