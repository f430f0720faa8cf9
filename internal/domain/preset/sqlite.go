package preset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PresetRecord is the gorm model backing the sqlite driver.
type PresetRecord struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"uniqueIndex;not null"`
	Source           string
	Dest             string
	Mode             string
	HeaderProtection bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PresetRecord) TableName() string {
	return "presets"
}

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite builds a sqlite-backed preset store over an existing gorm handle
// and migrates its table.
func NewSQLite(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	if err := db.AutoMigrate(&PresetRecord{}); err != nil {
		return nil, fmt.Errorf("migrate presets table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func toRecord(p Preset) PresetRecord {
	return PresetRecord{
		Name:             p.Name,
		Source:           p.Source,
		Dest:             p.Dest,
		Mode:             p.Mode,
		HeaderProtection: p.HeaderProtection,
	}
}

func fromRecord(r PresetRecord) Preset {
	return Preset{
		Name:             r.Name,
		Source:           r.Source,
		Dest:             r.Dest,
		Mode:             r.Mode,
		HeaderProtection: r.HeaderProtection,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (s *sqliteStore) Save(ctx context.Context, p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PresetRecord
		err := tx.Where("name = ?", p.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.Source = p.Source
			existing.Dest = p.Dest
			existing.Mode = p.Mode
			existing.HeaderProtection = p.HeaderProtection
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := toRecord(p)
			return tx.Create(&record).Error
		default:
			return err
		}
	})
}

func (s *sqliteStore) Get(ctx context.Context, name string) (Preset, error) {
	var record PresetRecord
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Preset{}, err
	}
	return fromRecord(record), nil
}

func (s *sqliteStore) List(ctx context.Context) ([]Preset, error) {
	var records []PresetRecord
	if err := s.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]Preset, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

func (s *sqliteStore) Remove(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Where("name = ?", name).Delete(&PresetRecord{}).Error
}

func (s *sqliteStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
