package entities

// UnnamedMethod is the display fallback for a method without a name.
const UnnamedMethod = "Без названия"

// Method is a standalone treatment option. Persuasiveness and Evidence are
// categorical grading labels from the source recommendation.
type Method struct {
	Name            string   `json:"name method,omitempty"`
	Indications     []string `json:"indications,omitempty"`
	Medicines       []string `json:"medicines,omitempty"`
	Materials       []string `json:"used material,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	Pages           []string `json:"pages,omitempty"`
	Persuasiveness  string   `json:"persuasiveness,omitempty"`
	Evidence        string   `json:"evidence,omitempty"`
}

// DisplayName returns the method name, or the unnamed-method fallback.
func (m Method) DisplayName() string {
	if m.Name == "" {
		return UnnamedMethod
	}
	return m.Name
}

// Joint is a block of methods applied together. Indications and
// recommendations live at the block level; the nested methods carry no
// independent indications.
type Joint struct {
	Indications     []string `json:"indications,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	Methods         []Method `json:"methods,omitempty"`
}
