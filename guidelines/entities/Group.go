package entities

// Group is a patient subpopulation within a variant, described by its
// indications text and an ordered treatment-stage sequence.
type Group struct {
	PatientsIndications string  `json:"patients_indications,omitempty"`
	Stages              []Stage `json:"stage,omitempty"`
}

type Stage struct {
	Name         string   `json:"name_stage"`
	Alternatives []Method `json:"alternative methods,omitempty"`
	Joint        *Joint   `json:"joint methods,omitempty"`
}
