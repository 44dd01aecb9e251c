// Package validation provides data validation functionality for the guidelines API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clinrec/guidelines-api/guidelines/entities"
	"github.com/clinrec/guidelines-api/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Input validation: alphanumeric + Cyrillic + safe punctuation. Disease
	// and variant names in the knowledge base are Russian free text.
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9а-яА-ЯёЁ\s\-\.\+',()]+$`)

	// Synthetic group ids look like "group1_0" or "varik2_1"
	groupIDRegex = regexp.MustCompile(`^[a-z]+\d+_\d+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	// strings.Contains is 5-10x faster than regex for these patterns
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${", // Command injection
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://", // Path traversal
		// LDAP injection patterns
		"*)(", "*|(", "*)%", // LDAP injection
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:", // NoSQL injection
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDisease checks if a disease entity is valid
func (v *DataValidatorImpl) ValidateDisease(d *entities.Disease) error {
	if d == nil {
		return fmt.Errorf("disease is nil")
	}

	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("empty disease name")
	}

	if len(d.Name) > 200 {
		return fmt.Errorf("disease name too long: %d characters", len(d.Name))
	}

	return nil
}

// ValidateDataIntegrity performs comprehensive validation of the loaded document.
// Only structurally unusable data is an error here; everything softer is
// reported through ReportDataQuality, because missing optional fields are
// legitimate in the source documents.
func (v *DataValidatorImpl) ValidateDataIntegrity(diseases []entities.Disease) error {
	if len(diseases) == 0 {
		return fmt.Errorf("no diseases found")
	}

	for i := range diseases {
		if err := v.ValidateDisease(&diseases[i]); err != nil {
			return fmt.Errorf("invalid disease at index %d: %w", i, err)
		}
	}

	return nil
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(diseases []entities.Disease) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateDiseaseNames: []string{},
	}

	// Check 1: duplicate disease names (uniqueness is assumed, not enforced)
	seen := make(map[string]bool)
	for _, disease := range diseases {
		if seen[disease.Name] {
			report.DuplicateDiseaseNames = append(report.DuplicateDiseaseNames, disease.Name)
		}
		seen[disease.Name] = true
	}

	// Check 2: walk every variant counting structural gaps
	for _, disease := range diseases {
		for _, variant := range disease.Variants {
			if len(variant.GroupSets) == 0 {
				report.VariantsWithoutGroups++
			}
			if strings.TrimSpace(variant.ICD10Code) == "" {
				report.VariantsWithoutICD10++
			}

			for _, set := range variant.GroupSets {
				for _, group := range set.Groups {
					if len(group.Stages) == 0 {
						report.GroupsWithoutStages++
					}
					for _, stage := range group.Stages {
						methodCount := len(stage.Alternatives)
						for _, method := range stage.Alternatives {
							if strings.TrimSpace(method.Name) == "" {
								report.UnnamedMethods++
							}
						}
						if stage.Joint != nil {
							methodCount += len(stage.Joint.Methods)
							for _, method := range stage.Joint.Methods {
								if strings.TrimSpace(method.Name) == "" {
									report.UnnamedMethods++
								}
							}
						}
						if methodCount == 0 {
							report.StagesWithoutMethods++
						}
					}
				}
			}
		}
	}

	return report
}

// ValidateInput validates user input strings with enhanced security.
// Limits are sized for clinical names: Russian disease and variant names run
// long, so the caps are wider than a typical search-box validator.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) < 2 {
		return fmt.Errorf("input too short: minimum 2 characters")
	}

	if len(input) > 120 {
		return fmt.Errorf("input too long: maximum 120 characters")
	}

	// Word count validation to prevent DoS attacks with many short words
	words := strings.Fields(input)
	if len(words) > 15 {
		return fmt.Errorf("input too complex: maximum 15 words allowed")
	}

	// Check for potentially dangerous patterns using string matching (5-10x faster than regex)
	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	// Allow only letters, numbers, spaces, and safe punctuation
	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only Latin and Cyrillic letters, numbers, spaces, hyphens, apostrophes, periods, plus sign, commas and parentheses are allowed")
	}

	// Additional checks for repeated characters (potential DoS)
	if v.hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateGroupID validates a synthetic patient-group id.
// Ids are assembled from the group field key and the element index, like
// "group1_0" or "varik2_1".
func (v *DataValidatorImpl) ValidateGroupID(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("group id cannot be empty")
	}

	if len(input) > 30 {
		return fmt.Errorf("group id too long: maximum 30 characters")
	}

	if !groupIDRegex.MatchString(input) {
		return fmt.Errorf("group id must look like group1_0")
	}

	return nil
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func (v *DataValidatorImpl) hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
