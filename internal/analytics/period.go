package analytics

import (
	"time"

	"github.com/ventaplus/commerce-service/pkg/util"
)

const dayFormat = "2006-01-02"

// DateRange is an inclusive start-end calendar window in the application
// timezone. Start is always at 00:00:00 and End at 23:59:59 of their days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive length of the range in calendar days.
func (r DateRange) Days() int {
	days := 0
	for cursor := r.Start; !cursor.After(r.End); cursor = cursor.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// EachDay calls fn with every calendar day label (YYYY-MM-DD) in the range.
func (r DateRange) EachDay(fn func(day string)) {
	for cursor := r.Start; !cursor.After(r.End); cursor = cursor.AddDate(0, 0, 1) {
		fn(cursor.Format(dayFormat))
	}
}

// EachMonth calls fn with every month label (YYYY-MM) touched by the range.
func (r DateRange) EachMonth(fn func(month string)) {
	cursor := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, r.Start.Location())
	for !cursor.After(r.End) {
		fn(cursor.Format("2006-01"))
		cursor = cursor.AddDate(0, 1, 0)
	}
}

// PeriodResolver turns optional from/to date parameters into concrete
// windows. It holds the application timezone resolved once at startup.
type PeriodResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewPeriodResolver builds a resolver for the given timezone.
func NewPeriodResolver(loc *time.Location) *PeriodResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodResolver{loc: loc, now: time.Now}
}

// Resolve builds the inclusive range. A missing to-date means today; a
// missing from-date means 29 days before the end, yielding a trailing 30-day
// window. Malformed dates are an input error, never silently defaulted.
func (p *PeriodResolver) Resolve(fromDate, toDate string) (DateRange, error) {
	end := p.now().In(p.loc)
	if toDate != "" {
		parsed, err := time.ParseInLocation(dayFormat, toDate, p.loc)
		if err != nil {
			return DateRange{}, util.NewValidationError("invalid date_to", nil)
		}
		end = parsed
	}
	end = p.endOfDay(end)

	var start time.Time
	if fromDate != "" {
		parsed, err := time.ParseInLocation(dayFormat, fromDate, p.loc)
		if err != nil {
			return DateRange{}, util.NewValidationError("invalid date_from", nil)
		}
		start = p.startOfDay(parsed)
	} else {
		start = p.startOfDay(end.AddDate(0, 0, -29))
	}

	if start.After(end) {
		return DateRange{}, util.NewValidationError("date_from after date_to", nil)
	}
	return DateRange{Start: start, End: end}, nil
}

// ResolveDay returns the single-day window for the given date, defaulting to
// today.
func (p *PeriodResolver) ResolveDay(date string) (DateRange, error) {
	day := p.now().In(p.loc)
	if date != "" {
		parsed, err := time.ParseInLocation(dayFormat, date, p.loc)
		if err != nil {
			return DateRange{}, util.NewValidationError("invalid date", nil)
		}
		day = parsed
	}
	return DateRange{Start: p.startOfDay(day), End: p.endOfDay(day)}, nil
}

// Today returns the current single-day window.
func (p *PeriodResolver) Today() DateRange {
	now := p.now().In(p.loc)
	return DateRange{Start: p.startOfDay(now), End: p.endOfDay(now)}
}

// MonthToDate returns the window from the first of the current month through
// today.
func (p *PeriodResolver) MonthToDate() DateRange {
	now := p.now().In(p.loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, p.loc)
	return DateRange{Start: first, End: p.endOfDay(now)}
}

// Previous returns the immediately preceding window of equal length.
func (p *PeriodResolver) Previous(r DateRange) DateRange {
	length := r.Days()
	return DateRange{
		Start: p.startOfDay(r.Start.AddDate(0, 0, -length)),
		End:   p.endOfDay(r.Start.AddDate(0, 0, -1)),
	}
}

// YearAgo shifts both bounds back exactly one calendar year, preserving
// day-of-month semantics.
func (p *PeriodResolver) YearAgo(r DateRange) DateRange {
	return DateRange{
		Start: p.startOfDay(r.Start.AddDate(-1, 0, 0)),
		End:   p.endOfDay(r.End.AddDate(-1, 0, 0)),
	}
}

func (p *PeriodResolver) startOfDay(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
}

func (p *PeriodResolver) endOfDay(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, p.loc)
}
