package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	evaldomain "fieldaudit/internal/modules/evaluation/domain"
)

const InvalidDateKey = "invalid-date"

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthKey maps a dd/mm/yyyy date to YYYY-MM.
func MonthKey(date string) string {
	day, month, year, ok := splitDate(date)
	if !ok || day < 1 || day > 31 {
		return InvalidDateKey
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthLabel renders a month key as "Março de 2024".
func MonthLabel(key string) string {
	year, month, ok := strings.Cut(key, "-")
	if !ok {
		return "Data Inválida"
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "Data Inválida"
	}
	return monthNames[m-1] + " de " + year
}

// MonthGroups maps month keys to sessions ordered by evaluation date, newest
// first, ties broken by save time.
type MonthGroups map[string][]evaldomain.Session

func GroupByMonth(sessions []evaldomain.Session, group evaldomain.Group) MonthGroups {
	ordered := make([]evaldomain.Session, 0, len(sessions))
	for _, s := range sessions {
		if group.Includes(s.Category) {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := dateValue(ordered[i].Date), dateValue(ordered[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return ordered[i].SavedAt > ordered[j].SavedAt
	})

	out := MonthGroups{}
	for _, s := range ordered {
		key := MonthKey(s.Date)
		out[key] = append(out[key], s)
	}
	return out
}

// Keys lists months newest first with the invalid bucket last.
func (g MonthGroups) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == InvalidDateKey {
			return false
		}
		if keys[j] == InvalidDateKey {
			return true
		}
		return keys[i] > keys[j]
	})
	return keys
}

func splitDate(date string) (day, month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if day, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if year, err = strconv.Atoi(parts[2]); err != nil || year < 0 || year > 9999 {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// dateValue orders unparseable dates before every real one.
func dateValue(date string) time.Time {
	day, month, year, ok := splitDate(date)
	if !ok {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
