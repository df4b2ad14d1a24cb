package memory

import (
	"errors"
	"testing"

	"github.com/Qiuarctica/memodate-backend/internal/platform/apperror"
)

func TestDeriveDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{"Alice", CategoryBirthday, "Alice's Birthday"},
		{"Wedding", CategoryAnniversary, "Wedding"},
		{"First Concert", CategorySpecial, "First Concert"},
		{"Mid-Autumn Festival", CategoryHoliday, "Mid-Autumn Festival"},
	}
	for _, tt := range tests {
		if got := DeriveDisplayName(tt.name, tt.category); got != tt.want {
			t.Errorf("DeriveDisplayName(%q, %q) = %q, want %q", tt.name, tt.category, got, tt.want)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryBirthday, CategoryAnniversary, CategorySpecial, CategoryHoliday} {
		if !c.Valid() {
			t.Errorf("Category(%q).Valid() = false, want true", c)
		}
	}
	for _, c := range []Category{"", "Birthday", "wedding", "BIRTHDAY"} {
		if c.Valid() {
			t.Errorf("Category(%q).Valid() = true, want false", c)
		}
	}
}

func TestValidateDraft(t *testing.T) {
	valid := Draft{Name: "Alice", Category: "birthday", Month: 3, Day: 15}
	if err := ValidateDraft(valid); err != nil {
		t.Fatalf("ValidateDraft(valid) = %v, want nil", err)
	}

	leapDay := Draft{Name: "Leapling", Category: "birthday", Month: 2, Day: 29}
	if err := ValidateDraft(leapDay); err != nil {
		t.Fatalf("ValidateDraft(Feb 29) = %v, want nil", err)
	}

	invalid := []struct {
		label string
		draft Draft
	}{
		{"empty name", Draft{Name: "", Category: "birthday", Month: 3, Day: 15}},
		{"unknown category", Draft{Name: "Alice", Category: "wedding", Month: 3, Day: 15}},
		{"month out of range", Draft{Name: "Alice", Category: "birthday", Month: 13, Day: 1}},
		{"day out of range", Draft{Name: "Alice", Category: "birthday", Month: 4, Day: 31}},
		{"feb 30", Draft{Name: "Alice", Category: "birthday", Month: 2, Day: 30}},
	}
	for _, tt := range invalid {
		err := ValidateDraft(tt.draft)
		if err == nil {
			t.Errorf("%s: ValidateDraft = nil, want error", tt.label)
			continue
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%s: error %v is not ErrValidation", tt.label, err)
		}
	}
}
