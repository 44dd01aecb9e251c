package entities

// NoDescription is the display fallback for a group without a
// patients_indications text.
const NoDescription = "Описание отсутствует"

// PatientGroup is a group with its synthetic identity attached: the id is
// "<field key>_<index within that field>" and is stable as long as the
// document's group-field order is stable.
type PatientGroup struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Group       Group  `json:"data"`
}
