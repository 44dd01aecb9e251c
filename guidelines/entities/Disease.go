package entities

// Document is the root of the knowledge file.
type Document struct {
	Diseases []Disease `json:"disease"`
}

type Disease struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"type_variant"`
}
