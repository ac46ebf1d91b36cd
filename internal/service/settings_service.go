package service

import (
	"encoding/json"
	"strings"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"
)

// SettingsService 用户偏好设置服务
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService 创建设置服务
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetOrCreate 获取用户设置，首次访问落默认值
func (s *SettingsService) GetOrCreate(userID uint) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &models.UserSettings{
		UserID:       userID,
		Theme:        constants.SettingsThemeLight,
		DateFormat:   constants.SettingsDateFormatDefault,
		NumberFormat: constants.SettingsNumberFormatDefault,
		PageSize:     constants.SettingsPageSizeDefault,
	}
	if err := s.settingsRepo.Create(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettingsInput 设置更新输入，nil 字段表示不变更
type UpdateSettingsInput struct {
	Theme        *string
	DateFormat   *string
	NumberFormat *string
	PageSize     *int
}

// Update 局部更新用户设置，分页大小越界时收敛到边界
func (s *SettingsService) Update(userID uint, input UpdateSettingsInput) (*models.UserSettings, error) {
	settings, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if input.Theme != nil {
		theme := strings.TrimSpace(*input.Theme)
		if theme != constants.SettingsThemeLight && theme != constants.SettingsThemeDark {
			return nil, ErrSettingsThemeInvalid
		}
		settings.Theme = theme
	}
	if input.DateFormat != nil && strings.TrimSpace(*input.DateFormat) != "" {
		settings.DateFormat = strings.TrimSpace(*input.DateFormat)
	}
	if input.NumberFormat != nil && strings.TrimSpace(*input.NumberFormat) != "" {
		settings.NumberFormat = strings.TrimSpace(*input.NumberFormat)
	}
	if input.PageSize != nil {
		settings.PageSize = clampPageSize(*input.PageSize)
	}

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func clampPageSize(pageSize int) int {
	if pageSize < constants.SettingsPageSizeMin {
		return constants.SettingsPageSizeMin
	}
	if pageSize > constants.SettingsPageSizeMax {
		return constants.SettingsPageSizeMax
	}
	return pageSize
}

// ToggleTheme 在浅色与深色主题间切换
func (s *SettingsService) ToggleTheme(userID uint) (*models.UserSettings, error) {
	settings, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if settings.Theme == constants.SettingsThemeDark {
		settings.Theme = constants.SettingsThemeLight
	} else {
		settings.Theme = constants.SettingsThemeDark
	}
	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SavedFilter 保存的目录筛选条件
type SavedFilter struct {
	Name    string            `json:"name"`
	Filters map[string]string `json:"filters"`
}

// SaveFilter 保存（或覆盖同名）目录筛选条件
func (s *SettingsService) SaveFilter(userID uint, filter SavedFilter) (*models.UserSettings, error) {
	if strings.TrimSpace(filter.Name) == "" {
		return nil, ErrSavedFilterNotFound
	}
	settings, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	filters, err := decodeSavedFilters(settings.SavedFilters)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range filters {
		if filters[i].Name == filter.Name {
			filters[i] = filter
			replaced = true
			break
		}
	}
	if !replaced {
		filters = append(filters, filter)
	}

	if err := s.storeSavedFilters(settings, filters); err != nil {
		return nil, err
	}
	return settings, nil
}

// DeleteFilter 删除保存的筛选条件
func (s *SettingsService) DeleteFilter(userID uint, name string) (*models.UserSettings, error) {
	settings, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	filters, err := decodeSavedFilters(settings.SavedFilters)
	if err != nil {
		return nil, err
	}

	kept := filters[:0]
	found := false
	for _, f := range filters {
		if f.Name == name {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return nil, ErrSavedFilterNotFound
	}

	if err := s.storeSavedFilters(settings, kept); err != nil {
		return nil, err
	}
	return settings, nil
}

// ListFilters 列出保存的筛选条件
func (s *SettingsService) ListFilters(userID uint) ([]SavedFilter, error) {
	settings, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return decodeSavedFilters(settings.SavedFilters)
}

// decodeSavedFilters SavedFilters 以 {"filters": [...]} 结构存储
func decodeSavedFilters(raw models.JSON) ([]SavedFilter, error) {
	value, ok := raw["filters"]
	if !ok || value == nil {
		return []SavedFilter{}, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var filters []SavedFilter
	if err := json.Unmarshal(data, &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

func (s *SettingsService) storeSavedFilters(settings *models.UserSettings, filters []SavedFilter) error {
	settings.SavedFilters = models.JSON{"filters": filters}
	return s.settingsRepo.Update(settings)
}
