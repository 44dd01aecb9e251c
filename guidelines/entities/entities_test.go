package entities

import (
	"encoding/json"
	"strings"
	"testing"
)

const variantJSON = `{
	"name": "Тип А",
	"ICD-10_code": "S52.5",
	"general_contraindications": ["Сепсис"],
	"group2": [
		{
			"patients_indications": "Пациенты старше 65 лет",
			"stage": [
				{
					"name_stage": "Консервативное лечение",
					"alternative methods": [
						{
							"name method": "Гипсовая иммобилизация",
							"indications": ["Стабильный перелом"],
							"medicines": ["Ибупрофен"],
							"used material": ["Гипсовый бинт"],
							"recommendations": "Контроль через 7 дней",
							"pages": ["12"],
							"persuasiveness": "A",
							"evidence": "1b"
						}
					]
				}
			]
		}
	],
	"varik1": [
		{
			"stage": [
				{
					"name_stage": "Оперативное лечение",
					"joint methods": {
						"indications": ["Нестабильный перелом"],
						"recommendations": "Выполнять совместно",
						"methods": [
							{"name method": "Остеосинтез", "medicines": ["Цефазолин"]},
							{"used material": ["Спицы"]}
						]
					}
				}
			]
		}
	]
}`

func TestVariantUnmarshalFixedFields(t *testing.T) {
	var v Variant
	if err := json.Unmarshal([]byte(variantJSON), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if v.Name != "Тип А" {
		t.Errorf("Expected name 'Тип А', got %q", v.Name)
	}
	if v.ICD10Code != "S52.5" {
		t.Errorf("Expected ICD-10 code S52.5, got %q", v.ICD10Code)
	}
	if len(v.Contraindications) != 1 || v.Contraindications[0] != "Сепсис" {
		t.Errorf("Unexpected contraindications: %v", v.Contraindications)
	}
}

func TestVariantUnmarshalGroupOrder(t *testing.T) {
	var v Variant
	if err := json.Unmarshal([]byte(variantJSON), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// Document order wins over numeric order, and the legacy varik prefix
	// is accepted alongside group
	if len(v.GroupSets) != 2 {
		t.Fatalf("Expected 2 group sets, got %d", len(v.GroupSets))
	}
	if v.GroupSets[0].Key != "group2" {
		t.Errorf("Expected first group set key group2, got %q", v.GroupSets[0].Key)
	}
	if v.GroupSets[1].Key != "varik1" {
		t.Errorf("Expected second group set key varik1, got %q", v.GroupSets[1].Key)
	}
}

func TestVariantUnmarshalGroupContent(t *testing.T) {
	var v Variant
	if err := json.Unmarshal([]byte(variantJSON), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	group := v.GroupSets[0].Groups[0]
	if group.PatientsIndications != "Пациенты старше 65 лет" {
		t.Errorf("Unexpected patients indications: %q", group.PatientsIndications)
	}
	if len(group.Stages) != 1 {
		t.Fatalf("Expected 1 stage, got %d", len(group.Stages))
	}

	stage := group.Stages[0]
	if stage.Name != "Консервативное лечение" {
		t.Errorf("Unexpected stage name: %q", stage.Name)
	}
	if len(stage.Alternatives) != 1 {
		t.Fatalf("Expected 1 alternative method, got %d", len(stage.Alternatives))
	}

	method := stage.Alternatives[0]
	if method.Name != "Гипсовая иммобилизация" {
		t.Errorf("Unexpected method name: %q", method.Name)
	}
	if len(method.Materials) != 1 || method.Materials[0] != "Гипсовый бинт" {
		t.Errorf("Unexpected materials: %v", method.Materials)
	}
	if method.Persuasiveness != "A" || method.Evidence != "1b" {
		t.Errorf("Unexpected grading: %q / %q", method.Persuasiveness, method.Evidence)
	}

	jointStage := v.GroupSets[1].Groups[0].Stages[0]
	if jointStage.Joint == nil {
		t.Fatal("Expected joint block to be decoded")
	}
	if len(jointStage.Joint.Methods) != 2 {
		t.Errorf("Expected 2 joint methods, got %d", len(jointStage.Joint.Methods))
	}
	if jointStage.Joint.Recommendations != "Выполнять совместно" {
		t.Errorf("Unexpected joint recommendations: %q", jointStage.Joint.Recommendations)
	}
}

func TestVariantUnmarshalSkipsInvalidGroupFields(t *testing.T) {
	raw := `{
		"name": "Тип B",
		"group1": "not an array",
		"group2": [],
		"group3": null,
		"group4": [{"patients_indications": "Дети"}]
	}`

	var v Variant
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(v.GroupSets) != 1 {
		t.Fatalf("Expected 1 group set, got %d", len(v.GroupSets))
	}
	if v.GroupSets[0].Key != "group4" {
		t.Errorf("Expected group4 to survive, got %q", v.GroupSets[0].Key)
	}
}

func TestVariantMarshalPreservesGroupFields(t *testing.T) {
	var v Variant
	if err := json.Unmarshal([]byte(variantJSON), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	encoded := string(out)

	group2 := strings.Index(encoded, `"group2":`)
	varik1 := strings.Index(encoded, `"varik1":`)
	if group2 == -1 || varik1 == -1 {
		t.Fatalf("Group fields missing from output: %s", encoded)
	}
	if group2 > varik1 {
		t.Error("Group fields should keep document order in output")
	}

	// Round trip must preserve the group sets
	var decoded Variant
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Round trip unmarshal failed: %v", err)
	}
	if len(decoded.GroupSets) != 2 {
		t.Errorf("Expected 2 group sets after round trip, got %d", len(decoded.GroupSets))
	}
}

func TestVariantMarshalWithoutGroups(t *testing.T) {
	v := Variant{Name: "Тип C", ICD10Code: "S52.6"}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if strings.Contains(string(out), "group") {
		t.Errorf("Variant without groups should not emit group fields: %s", out)
	}
}

func TestIsGroupField(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"group1", true},
		{"group12", true},
		{"varik1", true},
		{"varik37", true},
		{"group", false},
		{"varik", false},
		{"group1a", false},
		{"grouping2", false},
		{"name", false},
		{"stage", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsGroupField(tt.key); got != tt.want {
			t.Errorf("IsGroupField(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestDocumentDecode(t *testing.T) {
	raw := `{
		"disease": [
			{"name": "Перелом лучевой кости", "type_variant": [` + variantJSON + `]},
			{"name": "Перелом ключицы"}
		]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(doc.Diseases) != 2 {
		t.Fatalf("Expected 2 diseases, got %d", len(doc.Diseases))
	}
	if doc.Diseases[0].Name != "Перелом лучевой кости" {
		t.Errorf("Unexpected disease name: %q", doc.Diseases[0].Name)
	}
	if len(doc.Diseases[0].Variants) != 1 {
		t.Errorf("Expected 1 variant, got %d", len(doc.Diseases[0].Variants))
	}
	if doc.Diseases[1].Variants != nil {
		t.Errorf("Disease without type_variant should have nil variants")
	}
}

func TestMethodDisplayName(t *testing.T) {
	named := Method{Name: "Остеосинтез"}
	if named.DisplayName() != "Остеосинтез" {
		t.Errorf("Expected method name, got %q", named.DisplayName())
	}

	unnamed := Method{}
	if unnamed.DisplayName() != UnnamedMethod {
		t.Errorf("Expected %q for unnamed method, got %q", UnnamedMethod, unnamed.DisplayName())
	}
}
