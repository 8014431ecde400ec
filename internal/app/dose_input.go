package app

// NextDoseInput mirrors a medication_reminders row. An empty Timezone means UTC.
type NextDoseInput struct {
	TimeOfDay  string
	DaysOfWeek []int
	Timezone   string
}

type DoseWindowInput struct {
	DoseTime      string
	Timezone      string
	WindowMinutes int
}

// DoseStatusInput takes either explicit Schedules or a Frequency; Schedules win when both are set.
type DoseStatusInput struct {
	Frequency     string
	Schedules     []NextDoseInput
	Timezone      string
	RecentlyTaken bool
	WindowMinutes int
}
