package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

const backupVersion = 1

// ErrForeignBackup is returned when restoring a file made for another user.
var ErrForeignBackup = errors.New("backup belongs to another user")

// backupEntry references its food by name so a snapshot survives a catalog
// that was rebuilt with different ids.
type backupEntry struct {
	Food       string          `json:"food"`
	QuantityG  decimal.Decimal `json:"quantity_g"`
	MealType   string          `json:"meal_type"`
	ConsumedAt time.Time       `json:"consumed_at"`
}

type backupGoal struct {
	DailyCalories decimal.Decimal `json:"daily_calories"`
	DailyProtein  decimal.Decimal `json:"daily_protein"`
	DailyCarbs    decimal.Decimal `json:"daily_carbs"`
	DailyFat      decimal.Decimal `json:"daily_fat"`
}

type backupData struct {
	Version int           `json:"version"`
	UserID  uint          `json:"user_id"`
	Created time.Time     `json:"created"`
	Goal    *backupGoal   `json:"goal,omitempty"`
	Entries []backupEntry `json:"entries"`
}

// RestoreResult reports what a restore did.
type RestoreResult struct {
	Restored int      `json:"restored"`
	Skipped  []string `json:"skipped_foods,omitempty"`
}

// BackupService writes encrypted snapshots of a user's log and goal to disk.
type BackupService struct {
	db  *gorm.DB
	log *logrus.Entry
	dir string
	key string
}

func NewBackupService(db *gorm.DB, log *logrus.Logger, dir, key string) *BackupService {
	return &BackupService{db: db, log: scoped(log, "backup"), dir: dir, key: key}
}

// Create snapshots the user's entries and goal.
func (s *BackupService) Create(ctx context.Context, userID uint, now time.Time) (*models.Backup, error) {
	var entries []models.FoodEntry
	if err := s.db.WithContext(ctx).Preload("Food").
		Where("user_id = ?", userID).
		Order("consumed_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	data := backupData{
		Version: backupVersion,
		UserID:  userID,
		Created: now.UTC(),
		Entries: make([]backupEntry, 0, len(entries)),
	}
	for _, e := range entries {
		data.Entries = append(data.Entries, backupEntry{
			Food:       e.Food.Name,
			QuantityG:  e.QuantityG,
			MealType:   e.MealType,
			ConsumedAt: e.ConsumedAt.UTC(),
		})
	}

	var goal models.NutritionalGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	switch {
	case err == nil:
		data.Goal = &backupGoal{
			DailyCalories: goal.DailyCalories,
			DailyProtein:  goal.DailyProtein,
			DailyCarbs:    goal.DailyCarbs,
			DailyFat:      goal.DailyFat,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load goal: %w", err)
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	enc, err := util.EncryptAES(s.key, raw)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	id := uuid.NewString()
	fileName := fmt.Sprintf("backup-%d-%s.bin", userID, id)
	filePath := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	b := &models.Backup{
		ID:        id,
		UserID:    userID,
		FileName:  fileName,
		FilePath:  filePath,
		Size:      int64(len(enc)),
		Entries:   len(data.Entries),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(b).Error; err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("save backup record: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "backup_id": id, "entries": b.Entries}).Info("backup created")
	return b, nil
}

// List returns the user's backups, newest first.
func (s *BackupService) List(ctx context.Context, userID uint) ([]models.Backup, error) {
	var list []models.Backup
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

// Get returns one of the user's backups.
func (s *BackupService) Get(ctx context.Context, userID uint, id string) (*models.Backup, error) {
	var b models.Backup
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// Restore replaces the user's entries and goal with the snapshot's. Entries
// whose food is no longer in the catalog are skipped.
func (s *BackupService) Restore(ctx context.Context, userID uint, id string) (*RestoreResult, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	enc, err := os.ReadFile(b.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	raw, err := util.DecryptAES(s.key, enc)
	if err != nil {
		return nil, err
	}
	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	if data.UserID != 0 && data.UserID != userID {
		return nil, ErrForeignBackup
	}

	res := &RestoreResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foods := map[string]uint{}
		for _, e := range data.Entries {
			if _, seen := foods[e.Food]; seen {
				continue
			}
			var f models.Food
			err := tx.Where("name = ?", e.Food).First(&f).Error
			switch {
			case err == nil:
				foods[e.Food] = f.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				foods[e.Food] = 0
				res.Skipped = append(res.Skipped, e.Food)
			default:
				return fmt.Errorf("resolve food %q: %w", e.Food, err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.FoodEntry{}).Error; err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}
		for _, e := range data.Entries {
			foodID := foods[e.Food]
			if foodID == 0 || !models.ValidMealType(e.MealType) || !e.QuantityG.IsPositive() {
				continue
			}
			entry := models.FoodEntry{
				UserID:     userID,
				FoodID:     foodID,
				QuantityG:  e.QuantityG,
				MealType:   e.MealType,
				ConsumedAt: e.ConsumedAt.UTC(),
			}
			if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
				return fmt.Errorf("restore entry: %w", err)
			}
			res.Restored++
		}

		if data.Goal != nil {
			goal := models.NutritionalGoal{UserID: userID}
			if err := tx.Where("user_id = ?", userID).FirstOrInit(&goal).Error; err != nil {
				return fmt.Errorf("load goal: %w", err)
			}
			goal.DailyCalories = data.Goal.DailyCalories
			goal.DailyProtein = data.Goal.DailyProtein
			goal.DailyCarbs = data.Goal.DailyCarbs
			goal.DailyFat = data.Goal.DailyFat
			if err := tx.Omit(clause.Associations).Save(&goal).Error; err != nil {
				return fmt.Errorf("restore goal: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "backup_id": id, "restored": res.Restored}).Info("backup restored")
	return res, nil
}

// Delete removes the backup file and its record.
func (s *BackupService) Delete(ctx context.Context, userID uint, id string) error {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove backup file: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(b).Error; err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}

// RemoveFiles deletes the files behind list. It is used after an account
// deletion has already cascaded the records away.
func (s *BackupService) RemoveFiles(list []models.Backup) {
	for _, b := range list {
		if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).WithField("backup_id", b.ID).Warn("remove backup file")
		}
	}
}
