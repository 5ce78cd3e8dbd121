package jobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/finrecon/internal/domain"
)

var ErrUnknownPreset = errors.New("unknown preset")

const (
	PresetAllTime     = "all_time"
	PresetToday       = "today"
	PresetYesterday   = "yesterday"
	PresetLast7Days   = "last_7_days"
	PresetLast30Days  = "last_30_days"
	PresetMonthToDate = "month_to_date"
)

var knownPresets = map[string]struct{}{
	PresetAllTime:     {},
	PresetToday:       {},
	PresetYesterday:   {},
	PresetLast7Days:   {},
	PresetLast30Days:  {},
	PresetMonthToDate: {},
}

func ValidatePresets(names []string) error {
	for _, n := range names {
		if _, ok := knownPresets[n]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, n)
		}
	}

	return nil
}

// ResolvePreset turns a preset name into a concrete range. Day boundaries
// are business days in loc; open-ended presets end at now.
func ResolvePreset(name string, now time.Time, loc *time.Location) (domain.DateRange, error) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch name {
	case PresetAllTime:
		return domain.DateRange{}, nil
	case PresetToday:
		return domain.NewDateRange(midnight, local), nil
	case PresetYesterday:
		return domain.NewDateRange(midnight.AddDate(0, 0, -1), midnight.Add(-time.Nanosecond)), nil
	case PresetLast7Days:
		return domain.NewDateRange(midnight.AddDate(0, 0, -6), local), nil
	case PresetLast30Days:
		return domain.NewDateRange(midnight.AddDate(0, 0, -29), local), nil
	case PresetMonthToDate:
		first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return domain.NewDateRange(first, local), nil
	default:
		return domain.DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}
