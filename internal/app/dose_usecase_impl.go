package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
	"github.com/KasumiMercury/primind-dose-core/internal/pkg/clock"
)

type doseUseCaseImpl struct {
	clock clock.Clock
}

func NewDoseUseCase(clk clock.Clock) DoseUseCase {
	return &doseUseCaseImpl{
		clock: clk,
	}
}

func (uc *doseUseCaseImpl) CalculateNextDose(input NextDoseInput) (NextDoseOutput, error) {
	schedule, err := newSchedule("", input)
	if err != nil {
		slog.Debug("rejected reminder schedule",
			"time_of_day", input.TimeOfDay,
			"timezone", input.Timezone,
			"error", err,
		)

		return NextDoseOutput{}, err
	}

	return FromNextDose(domain.CalculateNextDose(uc.clock.Now(), schedule)), nil
}

func (uc *doseUseCaseImpl) IsDoseTime(input DoseWindowInput) (DoseWindowOutput, error) {
	width, err := domain.DoseWindowWidthFromMinutes(input.WindowMinutes)
	if err != nil {
		return DoseWindowOutput{}, WrapValidationError("window_minutes", err)
	}

	tod, err := domain.ParseTimeOfDay(input.DoseTime)
	if err != nil {
		return DoseWindowOutput{}, WrapValidationError("dose_time", err)
	}

	loc, err := domain.LoadTimezone(input.Timezone)
	if err != nil {
		return DoseWindowOutput{}, WrapValidationError("timezone", err)
	}

	now := uc.clock.Now()
	y, m, d := now.In(loc).Date()
	doseTime := tod.On(y, m, d, loc)

	return FromDoseWindow(doseTime, domain.EvaluateDoseWindow(now, doseTime, width), width), nil
}

func (uc *doseUseCaseImpl) GetDoseStatus(input DoseStatusInput) (DoseStatusOutput, error) {
	width, err := domain.DoseWindowWidthFromMinutes(input.WindowMinutes)
	if err != nil {
		return DoseStatusOutput{}, WrapValidationError("window_minutes", err)
	}

	var schedules []domain.ReminderSchedule

	switch {
	case len(input.Schedules) > 0:
		schedules = make([]domain.ReminderSchedule, 0, len(input.Schedules))

		for i, s := range input.Schedules {
			schedule, err := newSchedule(fmt.Sprintf("schedules[%d].", i), s)
			if err != nil {
				return DoseStatusOutput{}, err
			}

			schedules = append(schedules, schedule)
		}
	case input.Frequency != "":
		frequency, err := domain.NewFrequency(input.Frequency)
		if err != nil {
			return DoseStatusOutput{}, WrapValidationError("frequency", err)
		}

		loc, err := domain.LoadTimezone(input.Timezone)
		if err != nil {
			return DoseStatusOutput{}, WrapValidationError("timezone", err)
		}

		schedules = domain.FrequencySchedules(frequency, loc)
	default:
		return DoseStatusOutput{}, NewValidationError("frequency", "frequency or schedules is required")
	}

	summary := domain.SummarizeDoses(uc.clock.Now(), schedules, input.RecentlyTaken, width)

	return FromDoseSummary(summary, width), nil
}

func newSchedule(prefix string, input NextDoseInput) (domain.ReminderSchedule, error) {
	schedule, err := domain.NewReminderSchedule(input.TimeOfDay, input.DaysOfWeek, input.Timezone)
	if err == nil {
		return schedule, nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidTimeOfDay):
		return domain.ReminderSchedule{}, WrapValidationError(prefix+"time_of_day", err)
	case errors.Is(err, domain.ErrInvalidWeekday):
		return domain.ReminderSchedule{}, WrapValidationError(prefix+"days_of_week", err)
	case errors.Is(err, domain.ErrInvalidTimezone):
		return domain.ReminderSchedule{}, WrapValidationError(prefix+"timezone", err)
	default:
		return domain.ReminderSchedule{}, WrapValidationError(prefix+"schedule", err)
	}
}
