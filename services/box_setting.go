package services

import (
	"errors"
	"fmt"

	"nft-market-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoxSettingInput describes one trait draw table.
type BoxSettingInput struct {
	CardTypeID string
	Name       string
	Type       string // DOPAMINE | SEROTONIN
	Amounts    string // comma-separated decimals
	Level      int
}

// AddBoxSetting registers a draw table for a card type, trait and level.
func (s *BoxService) AddBoxSetting(in BoxSettingInput) (*models.BoxSetting, error) {
	var cardType models.CardType
	if err := s.DB.First(&cardType, "id = ?", in.CardTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card type %s", ErrNotFound, in.CardTypeID)
		}
		return nil, fmt.Errorf("%w: load card type: %v", ErrInternal, err)
	}

	if _, err := parseAmounts(in.Amounts); err != nil {
		return nil, fmt.Errorf("%w: bad amounts list: %v", ErrInternal, err)
	}

	setting := models.BoxSetting{
		ID:         uuid.NewString(),
		CardTypeID: in.CardTypeID,
		Name:       in.Name,
		Type:       in.Type,
		Amounts:    in.Amounts,
		Level:      in.Level,
	}
	if err := s.DB.Create(&setting).Error; err != nil {
		return nil, fmt.Errorf("%w: create box setting: %v", ErrInternal, err)
	}
	return &setting, nil
}

// BoxSettingPatch carries the mutable fields of a draw table.
type BoxSettingPatch struct {
	Name    *string
	Type    *string
	Amounts *string
}

// EditBoxSetting updates a draw table. A duplicate (cardType, name, type)
// combination is rejected.
func (s *BoxService) EditBoxSetting(settingID string, patch BoxSettingPatch) error {
	var setting models.BoxSetting
	if err := s.DB.First(&setting, "id = ?", settingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: box setting %s", ErrNotFound, settingID)
		}
		return fmt.Errorf("%w: load box setting: %v", ErrInternal, err)
	}

	name, settingType := setting.Name, setting.Type
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Type != nil {
		settingType = *patch.Type
	}

	var count int64
	err := s.DB.Model(&models.BoxSetting{}).
		Where("card_type_id = ? AND name = ? AND type = ? AND id <> ?",
			setting.CardTypeID, name, settingType, settingID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("%w: check box setting: %v", ErrInternal, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: box setting %s/%s exists", ErrConflict, name, settingType)
	}

	updates := map[string]any{"name": name, "type": settingType}
	if patch.Amounts != nil {
		if _, err := parseAmounts(*patch.Amounts); err != nil {
			return fmt.Errorf("%w: bad amounts list: %v", ErrInternal, err)
		}
		updates["amounts"] = *patch.Amounts
	}
	if err := s.DB.Model(&setting).Updates(updates).Error; err != nil {
		return fmt.Errorf("%w: update box setting: %v", ErrInternal, err)
	}
	return nil
}

// DeleteBoxSetting removes a draw table.
func (s *BoxService) DeleteBoxSetting(settingID string) error {
	res := s.DB.Where("id = ?", settingID).Delete(&models.BoxSetting{})
	if res.Error != nil {
		return fmt.Errorf("%w: delete box setting: %v", ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: box setting %s", ErrNotFound, settingID)
	}
	return nil
}
