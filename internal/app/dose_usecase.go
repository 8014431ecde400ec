package app

type DoseUseCase interface {
	CalculateNextDose(input NextDoseInput) (NextDoseOutput, error)
	IsDoseTime(input DoseWindowInput) (DoseWindowOutput, error)
	GetDoseStatus(input DoseStatusInput) (DoseStatusOutput, error)
}
