package models

// Гражданство: значения совпадают с constants, продублированы здесь,
// чтобы пакет моделей не зависел от constants.
const (
	CitizenshipRF      = "РФ"
	CitizenshipForeign = "Иностранец"
	CitizenshipAny     = "Любое"
)

// CitizenshipEligible — асимметричное правило допуска по гражданству:
// граждане РФ берут любые заказы, иностранцы — только "Иностранец" и "Любое".
func CitizenshipEligible(workerCitizenship, required string) bool {
	if workerCitizenship == CitizenshipForeign {
		return required == CitizenshipForeign || required == CitizenshipAny
	}
	return true
}
