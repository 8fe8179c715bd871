package timeframe

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
)

// DailyUsage groups the sessions whose start time falls on one local
// calendar date. Totals are derived from the owned sessions, never
// stored.
type DailyUsage struct {
	Date     time.Time
	Sessions []*session.SessionData
}

// TotalTokens sums token usage across the day's sessions.
func (d *DailyUsage) TotalTokens() session.TokenUsage {
	var total session.TokenUsage
	for _, s := range d.Sessions {
		total = total.Add(s.TotalTokens())
	}
	return total
}

// TotalInteractions counts interaction records across the day.
func (d *DailyUsage) TotalInteractions() int {
	n := 0
	for _, s := range d.Sessions {
		n += s.InteractionCount()
	}
	return n
}

// Models returns the distinct models used on this day, in first-encounter
// order across sessions.
func (d *DailyUsage) Models() []string {
	var models []string
	seen := make(map[string]bool)
	for _, s := range d.Sessions {
		for _, m := range s.Models() {
			if !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	return models
}

// TotalCost sums session costs for the day.
func (d *DailyUsage) TotalCost(table pricing.Table) decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Sessions {
		total = total.Add(table.SessionCost(s))
	}
	return total
}

// WeeklyUsage owns the daily buckets of one week. Year and Week are the
// ISO values of the week's start date, so a week spanning a year boundary
// displays one consistent number.
type WeeklyUsage struct {
	Year      int
	Week      int
	StartDate time.Time
	EndDate   time.Time
	Days      []DailyUsage
}

// TotalTokens sums token usage across the week's days.
func (w *WeeklyUsage) TotalTokens() session.TokenUsage {
	var total session.TokenUsage
	for i := range w.Days {
		total = total.Add(w.Days[i].TotalTokens())
	}
	return total
}

// TotalSessions counts sessions across the week.
func (w *WeeklyUsage) TotalSessions() int {
	n := 0
	for i := range w.Days {
		n += len(w.Days[i].Sessions)
	}
	return n
}

// TotalInteractions counts interaction records across the week.
func (w *WeeklyUsage) TotalInteractions() int {
	n := 0
	for i := range w.Days {
		n += w.Days[i].TotalInteractions()
	}
	return n
}

// TotalCost sums daily costs for the week.
func (w *WeeklyUsage) TotalCost(table pricing.Table) decimal.Decimal {
	total := decimal.Zero
	for i := range w.Days {
		total = total.Add(w.Days[i].TotalCost(table))
	}
	return total
}

// MonthlyUsage owns the weekly buckets whose start date falls in one
// month. A week is never split across months.
type MonthlyUsage struct {
	Year  int
	Month time.Month
	Weeks []WeeklyUsage
}

// TotalTokens sums token usage across the month's weeks.
func (m *MonthlyUsage) TotalTokens() session.TokenUsage {
	var total session.TokenUsage
	for i := range m.Weeks {
		total = total.Add(m.Weeks[i].TotalTokens())
	}
	return total
}

// TotalSessions counts sessions across the month.
func (m *MonthlyUsage) TotalSessions() int {
	n := 0
	for i := range m.Weeks {
		n += m.Weeks[i].TotalSessions()
	}
	return n
}

// TotalInteractions counts interaction records across the month.
func (m *MonthlyUsage) TotalInteractions() int {
	n := 0
	for i := range m.Weeks {
		n += m.Weeks[i].TotalInteractions()
	}
	return n
}

// TotalCost sums weekly costs for the month.
func (m *MonthlyUsage) TotalCost(table pricing.Table) decimal.Decimal {
	total := decimal.Zero
	for i := range m.Weeks {
		total = total.Add(m.Weeks[i].TotalCost(table))
	}
	return total
}

// dateOf truncates a timestamp to its local calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyBreakdown buckets sessions by the local calendar date of their
// start time, ascending. Sessions without a resolvable start time have no
// daily bucket.
func DailyBreakdown(sessions []*session.SessionData) []DailyUsage {
	buckets := make(map[time.Time][]*session.SessionData)
	for _, s := range sessions {
		start, ok := s.StartTime()
		if !ok {
			continue
		}
		date := dateOf(start)
		buckets[date] = append(buckets[date], s)
	}

	dates := make([]time.Time, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := make([]DailyUsage, len(dates))
	for i, date := range dates {
		days[i] = DailyUsage{Date: date, Sessions: buckets[date]}
	}
	return days
}

// WeekRange returns the start and end dates of the week containing d.
// weekStartDay follows the 0=Monday..6=Sunday convention.
func WeekRange(d time.Time, weekStartDay int) (time.Time, time.Time) {
	d = dateOf(d)
	// Go weekdays run 0=Sunday..6=Saturday.
	goStart := (weekStartDay + 1) % 7
	offset := (int(d.Weekday()) - goStart + 7) % 7
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// WeeklyBreakdown partitions daily buckets into weeks with the given
// start day, ascending by week start. Each week's display number is the
// ISO week of its start date.
func WeeklyBreakdown(days []DailyUsage, weekStartDay int) []WeeklyUsage {
	buckets := make(map[time.Time][]DailyUsage)
	ends := make(map[time.Time]time.Time)
	for _, day := range days {
		start, end := WeekRange(day.Date, weekStartDay)
		buckets[start] = append(buckets[start], day)
		ends[start] = end
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	weeks := make([]WeeklyUsage, len(starts))
	for i, start := range starts {
		bucket := buckets[start]
		sort.Slice(bucket, func(a, b int) bool { return bucket[a].Date.Before(bucket[b].Date) })
		year, week := start.ISOWeek()
		weeks[i] = WeeklyUsage{
			Year:      year,
			Week:      week,
			StartDate: start,
			EndDate:   ends[start],
			Days:      bucket,
		}
	}
	return weeks
}

// MonthlyBreakdown assigns each week to the month containing its start
// date, ascending by (year, month).
func MonthlyBreakdown(weeks []WeeklyUsage) []MonthlyUsage {
	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey][]WeeklyUsage)
	for _, w := range weeks {
		key := monthKey{w.StartDate.Year(), w.StartDate.Month()}
		buckets[key] = append(buckets[key], w)
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	months := make([]MonthlyUsage, len(keys))
	for i, key := range keys {
		months[i] = MonthlyUsage{Year: key.year, Month: key.month, Weeks: buckets[key]}
	}
	return months
}
