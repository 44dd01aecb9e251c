package guidelines

import (
	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// VariantOverview aggregates one variant's counts for the knowledge-base
// browser view.
type VariantOverview struct {
	Name               string `json:"name"`
	ICD10Code          string `json:"ICD-10_code"`
	Groups             int    `json:"groups"`
	Stages             int    `json:"stages"`
	AlternativeMethods int    `json:"alternative_methods"`
	JointMethods       int    `json:"joint_methods"`
}

type DiseaseOverview struct {
	Name     string            `json:"name"`
	Variants []VariantOverview `json:"variants"`
}

// Overview computes per-variant aggregate counts over the whole knowledge
// base, in document order.
func Overview(diseases []entities.Disease) []DiseaseOverview {
	overviews := make([]DiseaseOverview, 0, len(diseases))
	for _, disease := range diseases {
		variants := make([]VariantOverview, 0, len(disease.Variants))
		for _, variant := range disease.Variants {
			counts := VariantOverview{
				Name:      variant.Name,
				ICD10Code: variant.ICD10Code,
			}
			for _, group := range PatientGroups(variant) {
				counts.Groups++
				for _, stage := range group.Group.Stages {
					counts.Stages++
					counts.AlternativeMethods += len(stage.Alternatives)
					if stage.Joint != nil {
						counts.JointMethods += len(stage.Joint.Methods)
					}
				}
			}
			variants = append(variants, counts)
		}
		overviews = append(overviews, DiseaseOverview{Name: disease.Name, Variants: variants})
	}
	return overviews
}

// CountMethods returns the total number of treatment methods in the
// knowledge base, nested joint methods included.
func CountMethods(diseases []entities.Disease) int {
	total := 0
	for _, overview := range Overview(diseases) {
		for _, variant := range overview.Variants {
			total += variant.AlternativeMethods + variant.JointMethods
		}
	}
	return total
}
