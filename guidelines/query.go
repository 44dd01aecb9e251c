package guidelines

import (
	"fmt"

	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// DiseaseNames returns the disease names in document order.
func DiseaseNames(diseases []entities.Disease) []string {
	names := make([]string, 0, len(diseases))
	for _, disease := range diseases {
		names = append(names, disease.Name)
	}
	return names
}

// BuildDiseaseMap builds a name-keyed lookup map over the diseases.
func BuildDiseaseMap(diseases []entities.Disease) map[string]entities.Disease {
	diseaseMap := make(map[string]entities.Disease, len(diseases))
	for _, disease := range diseases {
		diseaseMap[disease.Name] = disease
	}
	return diseaseMap
}

// FindVariant returns the named variant of a disease.
func FindVariant(disease entities.Disease, name string) (entities.Variant, bool) {
	for _, variant := range disease.Variants {
		if variant.Name == name {
			return variant, true
		}
	}
	return entities.Variant{}, false
}

// PatientGroups flattens a variant's numbered group fields into one ordered
// list: field key order first, element order within each field second. Each
// entry carries the synthetic id "<key>_<index>" and the display description,
// falling back to the placeholder when the group has no indications text.
func PatientGroups(variant entities.Variant) []entities.PatientGroup {
	groups := []entities.PatientGroup{}
	for _, set := range variant.GroupSets {
		for idx, group := range set.Groups {
			description := group.PatientsIndications
			if description == "" {
				description = entities.NoDescription
			}
			groups = append(groups, entities.PatientGroup{
				ID:          fmt.Sprintf("%s_%d", set.Key, idx),
				Description: description,
				Group:       group,
			})
		}
	}
	return groups
}

// FindPatientGroup resolves a synthetic group id within a variant.
func FindPatientGroup(variant entities.Variant, id string) (entities.PatientGroup, bool) {
	for _, group := range PatientGroups(variant) {
		if group.ID == id {
			return group, true
		}
	}
	return entities.PatientGroup{}, false
}

// GroupPlan reshapes a group into its treatment plan. Pure reshaping: the
// stages pass through unchanged and a missing stage list becomes an empty
// one. The description stays empty here, the placeholder is display-only.
func GroupPlan(variantName string, group entities.Group) entities.Plan {
	stages := group.Stages
	if stages == nil {
		stages = []entities.Stage{}
	}
	return entities.Plan{
		Variant:          variantName,
		GroupDescription: group.PatientsIndications,
		Stages:           stages,
	}
}
