package entities

// NoJointMethods is the display fallback for a joint block that lists no
// methods.
const NoJointMethods = "Не указаны"

// SearchResult is one keyword-search hit, flattened for display: the path
// down the document (disease, variant, group description, stage) plus the
// displayable fields of the matched method or joint block. Type is
// "alternative" or "joint"; joint results keep the block's nested methods in
// JointMethods and leave the per-method fields empty at the block level.
type SearchResult struct {
	Method          string   `json:"method"`
	Disease         string   `json:"disease"`
	Variant         string   `json:"variant"`
	Group           string   `json:"group"`
	Stage           string   `json:"stage"`
	Indications     []string `json:"indications"`
	Medicines       []string `json:"medicines"`
	Materials       []string `json:"materials"`
	Recommendations string   `json:"recommendations"`
	Pages           []string `json:"pages"`
	Persuasiveness  string   `json:"persuasiveness"`
	Evidence        string   `json:"evidence"`
	Type            string   `json:"type"`
	JointMethods    []Method `json:"joint_methods,omitempty"`
}
