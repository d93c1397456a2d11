// Package schedule validates delivery requests and generates the
// selectable time-slot sequence. The service window, slot granularity and
// lead time are configuration, not business constants.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mizu-catering/orderhub/internal/validation"
)

// Config holds the scheduling knobs.
type Config struct {
	// WindowStart and WindowEnd bound the service day, inclusive,
	// expressed as minutes from midnight.
	WindowStart time.Duration
	WindowEnd   time.Duration
	// SlotInterval is the slot granularity.
	SlotInterval time.Duration
	// LeadTime is the minimum interval between "now" and delivery.
	LeadTime time.Duration
}

// DefaultConfig is the production window: 30-minute slots, 06:00 to 22:00
// inclusive, 12-hour lead time.
func DefaultConfig() Config {
	return Config{
		WindowStart:  6 * time.Hour,
		WindowEnd:    22 * time.Hour,
		SlotInterval: 30 * time.Minute,
		LeadTime:     12 * time.Hour,
	}
}

// Request is a delivery request as the customer fills it in. Validation
// happens at submission time; until then fields may be empty.
type Request struct {
	// Date is a calendar date, formatted 2006-01-02.
	Date string `json:"date" validate:"required"`
	// Time is a slot machine value, formatted 15:04.
	Time         string `json:"time" validate:"required"`
	Street       string `json:"street" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Instructions string `json:"instructions,omitempty"`
}

// Slot is one selectable delivery time.
type Slot struct {
	// Value is the machine form, "HH:MM".
	Value string `json:"value"`
	// Label is the display form, e.g. "6:30 AM".
	Label string `json:"label"`
}

// Scheduler validates requests against one Config.
type Scheduler struct {
	cfg      Config
	validate *validator.Validate
}

// New builds a scheduler for the given config.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Config returns the scheduler's configuration.
func (s *Scheduler) Config() Config { return s.cfg }

// Slots generates the full slot sequence for one service day. The
// sequence is pure: same config in, same slots out.
func (s *Scheduler) Slots() []Slot {
	var slots []Slot
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for at := s.cfg.WindowStart; at <= s.cfg.WindowEnd; at += s.cfg.SlotInterval {
		t := day.Add(at)
		slots = append(slots, Slot{
			Value: t.Format("15:04"),
			Label: t.Format("3:04 PM"),
		})
	}
	return slots
}

// Validate checks a delivery request and returns a *validation.Error
// listing every violated rule at once: missing fields, an unparseable or
// out-of-window slot, and a delivery time inside the lead-time horizon.
// A delivery at exactly now+LeadTime is acceptable.
func (s *Scheduler) Validate(req Request, now time.Time) error {
	var verr validation.Error

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("schedule: validate request: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fieldName(fe.Field()), "is required")
		}
	}

	if req.Date != "" && req.Time != "" {
		deliverAt, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, now.Location())
		switch {
		case err != nil:
			verr.Add("time", "is not a valid delivery slot")
		case !s.inWindow(deliverAt):
			verr.Addf("time", "must be between %s and %s",
				s.fmtClock(s.cfg.WindowStart), s.fmtClock(s.cfg.WindowEnd))
		case deliverAt.Before(now.Add(s.cfg.LeadTime)):
			verr.Addf("time", "delivery requires at least %s notice", s.cfg.LeadTime)
		}
	}

	return verr.Err()
}

func (s *Scheduler) inWindow(at time.Time) bool {
	clock := time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute
	return clock >= s.cfg.WindowStart && clock <= s.cfg.WindowEnd
}

func (s *Scheduler) fmtClock(d time.Duration) string {
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return day.Add(d).Format("15:04")
}

// fieldName maps struct field names to their wire names.
func fieldName(structField string) string {
	switch structField {
	case "Date":
		return "date"
	case "Time":
		return "time"
	case "Street":
		return "street"
	case "City":
		return "city"
	case "State":
		return "state"
	case "PostalCode":
		return "postal_code"
	default:
		return structField
	}
}
