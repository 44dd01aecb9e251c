package guidelines

import (
	"strings"

	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// SearchMethods scans every treatment method in the knowledge base for a
// case-insensitive substring match against the keyword. There is no index:
// every call rescans the full document, which is fine at clinical
// knowledge-base sizes.
//
// Alternative methods match on name, indications, medicines, materials and
// recommendations. Joint blocks match on the block's own indications and
// recommendations, or on a nested method's name, medicines or materials.
// Nested method indications are deliberately excluded: indications live at
// the block level for joint methods.
func SearchMethods(diseases []entities.Disease, keyword string) []entities.SearchResult {
	results := []entities.SearchResult{}
	needle := strings.ToLower(keyword)

	for _, disease := range diseases {
		for _, variant := range disease.Variants {
			for _, group := range PatientGroups(variant) {
				for _, stage := range group.Group.Stages {
					for _, method := range stage.Alternatives {
						if methodMatches(method, needle) {
							results = append(results, formatMethodResult(method, disease.Name, variant.Name, group.Description, stage.Name))
						}
					}
					if stage.Joint != nil && jointMatches(*stage.Joint, needle) {
						results = append(results, formatJointResult(*stage.Joint, disease.Name, variant.Name, group.Description, stage.Name))
					}
				}
			}
		}
	}
	return results
}

func containsLower(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}

func methodMatches(method entities.Method, needle string) bool {
	if containsLower(method.Name, needle) || containsLower(method.Recommendations, needle) {
		return true
	}
	for _, list := range [][]string{method.Indications, method.Medicines, method.Materials} {
		for _, field := range list {
			if containsLower(field, needle) {
				return true
			}
		}
	}
	return false
}

func jointMatches(joint entities.Joint, needle string) bool {
	if containsLower(joint.Recommendations, needle) {
		return true
	}
	for _, field := range joint.Indications {
		if containsLower(field, needle) {
			return true
		}
	}
	for _, method := range joint.Methods {
		if containsLower(method.Name, needle) {
			return true
		}
		for _, list := range [][]string{method.Medicines, method.Materials} {
			for _, field := range list {
				if containsLower(field, needle) {
					return true
				}
			}
		}
	}
	return false
}

func formatMethodResult(method entities.Method, disease, variant, group, stage string) entities.SearchResult {
	return entities.SearchResult{
		Method:          method.DisplayName(),
		Disease:         disease,
		Variant:         variant,
		Group:           group,
		Stage:           stage,
		Indications:     orEmpty(method.Indications),
		Medicines:       orEmpty(method.Medicines),
		Materials:       orEmpty(method.Materials),
		Recommendations: method.Recommendations,
		Pages:           orEmpty(method.Pages),
		Persuasiveness:  method.Persuasiveness,
		Evidence:        method.Evidence,
		Type:            "alternative",
	}
}

func formatJointResult(joint entities.Joint, disease, variant, group, stage string) entities.SearchResult {
	names := make([]string, 0, len(joint.Methods))
	for _, method := range joint.Methods {
		names = append(names, method.DisplayName())
	}
	label := entities.NoJointMethods
	if len(names) > 0 {
		label = strings.Join(names, ", ")
	}

	// Per-method details stay nested in JointMethods, the block-level
	// fields are left empty.
	return entities.SearchResult{
		Method:          "Совместные методы: " + label,
		Disease:         disease,
		Variant:         variant,
		Group:           group,
		Stage:           stage,
		Indications:     orEmpty(joint.Indications),
		Medicines:       []string{},
		Materials:       []string{},
		Recommendations: joint.Recommendations,
		Pages:           []string{},
		Persuasiveness:  "",
		Evidence:        "",
		Type:            "joint",
		JointMethods:    joint.Methods,
	}
}

// orEmpty keeps result slices non-nil so they serialize as empty lists.
func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
