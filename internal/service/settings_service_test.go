package service

import (
	"errors"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/repository"

	"gorm.io/gorm"
)

func newSettingsService(db *gorm.DB) *SettingsService {
	return NewSettingsService(repository.NewSettingsRepository(db))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestGetOrCreateSeedsDefaults(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	settings, err := svc.GetOrCreate(f.User.ID)
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}
	if settings.Theme != constants.SettingsThemeLight {
		t.Fatalf("default theme want light got %s", settings.Theme)
	}
	if settings.PageSize != constants.SettingsPageSizeDefault {
		t.Fatalf("default page size want %d got %d", constants.SettingsPageSizeDefault, settings.PageSize)
	}

	again, err := svc.GetOrCreate(f.User.ID)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if again.ID != settings.ID {
		t.Fatalf("repeat access should reuse the same row")
	}
}

func TestUpdateClampsPageSize(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	cases := []struct {
		name string
		in   int
		want int
	}{
		{"below_min_clamps_up", 0, constants.SettingsPageSizeMin},
		{"negative_clamps_up", -5, constants.SettingsPageSizeMin},
		{"above_max_clamps", constants.SettingsPageSizeMax + 50, constants.SettingsPageSizeMax},
		{"in_range_kept", 30, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings, err := svc.Update(f.User.ID, UpdateSettingsInput{PageSize: intPtr(tc.in)})
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if settings.PageSize != tc.want {
				t.Fatalf("page size want %d got %d", tc.want, settings.PageSize)
			}
		})
	}
}

func TestUpdateValidatesTheme(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	if _, err := svc.Update(f.User.ID, UpdateSettingsInput{Theme: strPtr("solarized")}); !errors.Is(err, ErrSettingsThemeInvalid) {
		t.Fatalf("want ErrSettingsThemeInvalid got %v", err)
	}
	settings, err := svc.Update(f.User.ID, UpdateSettingsInput{Theme: strPtr(constants.SettingsThemeDark)})
	if err != nil {
		t.Fatalf("update theme failed: %v", err)
	}
	if settings.Theme != constants.SettingsThemeDark {
		t.Fatalf("theme want dark got %s", settings.Theme)
	}
}

func TestToggleThemeFlips(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	settings, err := svc.ToggleTheme(f.User.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if settings.Theme != constants.SettingsThemeDark {
		t.Fatalf("first toggle want dark got %s", settings.Theme)
	}
	settings, err = svc.ToggleTheme(f.User.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if settings.Theme != constants.SettingsThemeLight {
		t.Fatalf("second toggle want light got %s", settings.Theme)
	}
}

func TestSaveFilterOverwritesSameName(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	if _, err := svc.SaveFilter(f.User.ID, SavedFilter{
		Name:    "周末合家欢",
		Filters: map[string]string{"genre": "family", "players": "4"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := svc.SaveFilter(f.User.ID, SavedFilter{
		Name:    "周末合家欢",
		Filters: map[string]string{"genre": "party", "players": "6"},
	}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	filters, err := svc.ListFilters(f.User.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(filters) != 1 {
		t.Fatalf("same name should overwrite, got %d filters", len(filters))
	}
	if filters[0].Filters["genre"] != "party" {
		t.Fatalf("filter should hold latest values, got %+v", filters[0].Filters)
	}
}

func TestDeleteFilter(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newSettingsService(db)

	if _, err := svc.SaveFilter(f.User.ID, SavedFilter{
		Name:    "双人快开",
		Filters: map[string]string{"players": "2"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := svc.DeleteFilter(f.User.ID, "双人快开"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	filters, err := svc.ListFilters(f.User.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(filters) != 0 {
		t.Fatalf("filter should be gone, got %d", len(filters))
	}
	if _, err := svc.DeleteFilter(f.User.ID, "双人快开"); !errors.Is(err, ErrSavedFilterNotFound) {
		t.Fatalf("want ErrSavedFilterNotFound got %v", err)
	}
}
