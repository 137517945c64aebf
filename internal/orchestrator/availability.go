package orchestrator

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/parse"
	"maintenance-orchestrator/internal/scheduler"
)

const maxExpandDays = 366

type window struct {
	date       string
	start, end int
}

// ExpandAvailability creates one AVAILABLE slot per matching date in the
// range. Dates that already hold the same window are skipped, so repeating
// the call is harmless.
func (o *Orchestrator) ExpandAvailability(ctx context.Context, technicianID, actor int64, in ExpandAvailabilityInput) ([]model.TechnicianAvailability, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}
	if _, err := o.store.GetTechnician(ctx, technicianID); err != nil {
		return nil, err
	}

	from, _ := time.Parse(scheduler.DateLayout, in.From)
	to, _ := time.Parse(scheduler.DateLayout, in.To)
	if to.Before(from) {
		return nil, apperr.Validation("range ends before it starts")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxExpandDays {
		return nil, apperr.Validation("range spans %d days; at most %d allowed", days, maxExpandDays)
	}

	weekdays, err := parse.ParseWeekdays(in.Weekdays)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid weekdays", err)
	}
	start, end, err := o.shiftWindow(ctx, in)
	if err != nil {
		return nil, err
	}

	existing, err := o.store.ListAvailability(ctx, technicianID, in.From, in.To)
	if err != nil {
		return nil, err
	}
	taken := make(map[window]bool, len(existing))
	for _, s := range existing {
		taken[window{s.WorkDate, s.StartMinute, s.EndMinute}] = true
	}

	slots := []model.TechnicianAvailability{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !selected(weekdays, d.Weekday()) {
			continue
		}
		date := d.Format(scheduler.DateLayout)
		if taken[window{date, start, end}] {
			continue
		}
		slots = append(slots, model.TechnicianAvailability{
			TechnicianID:    technicianID,
			WorkDate:        date,
			ShiftTemplateID: in.ShiftTemplateID,
			StartMinute:     start,
			EndMinute:       end,
			Status:          model.SlotAvailable,
			Special:         in.Special,
			Note:            in.Note,
		})
	}
	if err := o.store.CreateAvailability(ctx, slots); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"technician_id": technicianID,
		"from":          in.From,
		"to":            in.To,
		"created":       len(slots),
		"actor":         actor,
	}).Info("availability expanded")
	return slots, nil
}

func (o *Orchestrator) shiftWindow(ctx context.Context, in ExpandAvailabilityInput) (int, int, error) {
	if in.ShiftTemplateID != nil {
		tpl, err := o.store.GetShiftTemplate(ctx, *in.ShiftTemplateID)
		if err != nil {
			return 0, 0, err
		}
		return tpl.StartMinute, tpl.EndMinute, nil
	}

	start, err := parse.ParseClock(in.Start)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindValidation, "invalid start time", err)
	}
	end, err := parse.ParseClock(in.End)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.KindValidation, "invalid end time", err)
	}
	if end <= start {
		return 0, 0, apperr.Validation("shift ends at %s, before it starts at %s", in.End, in.Start)
	}
	return start, end, nil
}

func selected(days []time.Weekday, d time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	for _, w := range days {
		if w == d {
			return true
		}
	}
	return false
}

// ListDevices returns the device directory.
func (o *Orchestrator) ListDevices(ctx context.Context) ([]model.Device, error) {
	return o.store.ListDevices(ctx)
}

// ListTechnicians returns the technician directory with skills.
func (o *Orchestrator) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	return o.store.ListTechnicians(ctx)
}
