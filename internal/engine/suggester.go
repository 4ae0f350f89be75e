package engine

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// BookingLookup returns the bookings of a court on a date. Cancelled ones may be included.
type BookingLookup interface {
	BookingsFor(courtID int64, date time.Time) []*domain.Booking
}

// TrainerLookup returns a trainer's working day. ok is false when the trainer does not work that date.
type TrainerLookup interface {
	TrainerDay(trainerID int64, date time.Time) (day domain.TrainerDay, ok bool)
}

// SuggestionRequest describes the slot the user wanted.
type SuggestionRequest struct {
	Court     domain.Court
	Date      time.Time
	Interval  domain.TimeInterval
	TrainerID *int64
	// NotBefore excludes candidates starting earlier. Zero disables the check.
	NotBefore time.Time
}

type SuggesterConfig struct {
	Limit       int
	StepMinutes int
	HorizonDays int
}

// Suggester searches alternative free slots of the same duration.
type Suggester struct {
	cfg SuggesterConfig
}

func NewSuggester(cfg SuggesterConfig) *Suggester {
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultSuggestionLimit
	}
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = domain.DefaultSuggestionStepMinutes
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = domain.DefaultSuggestionHorizonDays
	}
	return &Suggester{cfg: cfg}
}

func (s *Suggester) Config() SuggesterConfig {
	return s.cfg
}

type candidate struct {
	court    domain.Court
	order    int
	interval domain.TimeInterval
}

// Suggest walks the requested date and the following HorizonDays dates. On each date it
// tries start times in ascending order, and for every time the requested court first,
// then sibling courts by ID. A candidate is kept when it fits business hours, no active
// booking overlaps it, and the trainer (if any) covers it. The requested slot itself is
// never returned. At most Limit suggestions are returned; none found is an empty slice.
func (s *Suggester) Suggest(req SuggestionRequest, siblings []domain.Court, bookings BookingLookup, trainers TrainerLookup) []domain.Suggestion {
	result := make([]domain.Suggestion, 0, s.cfg.Limit)

	duration := req.Interval.DurationMinutes()
	if req.Interval.Validate() != nil || duration <= 0 {
		return result
	}

	courts := orderCourts(req.Court, siblings)
	baseDate := domain.DateOnly(req.Date)

	for day := 0; day <= s.cfg.HorizonDays; day++ {
		date := baseDate.AddDate(0, 0, day)
		earliest := -1
		if day == 0 {
			earliest = req.Interval.StartMinutes()
		}

		var trainerDay domain.TrainerDay
		if req.TrainerID != nil && trainers != nil {
			td, ok := trainers.TrainerDay(*req.TrainerID, date)
			if !ok {
				continue
			}
			trainerDay = td
		}

		for _, c := range s.candidates(courts, duration, earliest) {
			if day == 0 && c.court.ID == req.Court.ID && c.interval == req.Interval {
				continue
			}
			if !req.NotBefore.IsZero() && c.interval.Start.OnDate(date).Before(req.NotBefore) {
				continue
			}
			var existing []*domain.Booking
			if bookings != nil {
				existing = bookings.BookingsFor(c.court.ID, date)
			}
			if CheckBookingConflict(c.court.ID, date, c.interval, existing) != nil {
				continue
			}
			if req.TrainerID != nil && trainers != nil && !trainerDay.Covers(c.interval) {
				continue
			}

			result = append(result, domain.Suggestion{
				Date:      date,
				Time:      c.interval.Start,
				Interval:  c.interval,
				CourtID:   c.court.ID,
				CourtName: c.court.Name,
			})
			if len(result) >= s.cfg.Limit {
				return result
			}
		}
	}
	return result
}

// candidates lists every slot of duration within each court's business hours, stepping from
// the opening time, or from earliest when set. Sorted by start, then court order.
func (s *Suggester) candidates(courts []domain.Court, duration int, earliest int) []candidate {
	var out []candidate
	for order, court := range courts {
		hours := BusinessHours(court)
		openAt, closeAt := hours.StartMinutes(), hours.EndMinutes()

		first := openAt
		if earliest >= 0 {
			first = earliest
			for first < openAt {
				first += s.cfg.StepMinutes
			}
		}

		for start := first; start+duration <= closeAt; start += s.cfg.StepMinutes {
			out = append(out, candidate{
				court:    court,
				order:    order,
				interval: domain.IntervalFromMinutes(start, start+duration),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].interval.StartMinutes(), out[j].interval.StartMinutes()
		if si != sj {
			return si < sj
		}
		return out[i].order < out[j].order
	})
	return out
}

// orderCourts puts requested first, then the other courts of its club by ID.
func orderCourts(requested domain.Court, siblings []domain.Court) []domain.Court {
	out := []domain.Court{requested}
	seen := map[int64]bool{requested.ID: true}

	others := make([]domain.Court, 0, len(siblings))
	for _, c := range siblings {
		if seen[c.ID] || c.ClubID != requested.ClubID {
			continue
		}
		seen[c.ID] = true
		others = append(others, c)
	}
	sort.Slice(others, func(i, j int) bool { return others[i].ID < others[j].ID })
	return append(out, others...)
}

// BusinessHours returns the court opening hours, or 08:00-22:00 when they are not configured.
func BusinessHours(court domain.Court) domain.TimeInterval {
	if court.BusinessHours.Validate() != nil {
		return domain.TimeInterval{Start: domain.DefaultOpenTime, End: domain.DefaultCloseTime}
	}
	return court.BusinessHours
}

// BookingIndex is an in-memory BookingLookup keyed by court and date.
type BookingIndex map[int64]map[string][]*domain.Booking

func NewBookingIndex(bookings []*domain.Booking) BookingIndex {
	idx := make(BookingIndex)
	for _, b := range bookings {
		if b == nil {
			continue
		}
		byDate, ok := idx[b.CourtID]
		if !ok {
			byDate = make(map[string][]*domain.Booking)
			idx[b.CourtID] = byDate
		}
		key := b.Date.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], b)
	}
	return idx
}

func (idx BookingIndex) BookingsFor(courtID int64, date time.Time) []*domain.Booking {
	return idx[courtID][date.Format(domain.DateFormat)]
}

// TrainerSchedule is an in-memory TrainerLookup for one trainer.
type TrainerSchedule struct {
	TrainerID int64
	Days      map[string]domain.TrainerDay
}

func (t TrainerSchedule) TrainerDay(trainerID int64, date time.Time) (domain.TrainerDay, bool) {
	if trainerID != t.TrainerID {
		return domain.TrainerDay{}, false
	}
	day, ok := t.Days[date.Format(domain.DateFormat)]
	return day, ok
}
