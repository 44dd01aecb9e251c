package entities

// Plan is the treatment plan for one patient group of a variant.
// GroupDescription stays empty when the group has no indications text;
// Stages is never nil.
type Plan struct {
	Variant          string  `json:"variant"`
	GroupDescription string  `json:"group_description"`
	Stages           []Stage `json:"stages"`
}
