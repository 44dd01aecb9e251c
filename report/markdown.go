package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/clinrec/guidelines-api/guidelines/entities"
)

// MarkdownWriter outputs treatment plan reports in Markdown format, mirroring
// the section layout clinicians know from the printed recommendations.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full treatment plan report in Markdown format.
func (w *MarkdownWriter) Write(plan entities.Plan, variant entities.Variant) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, plan, variant)
	for _, stage := range plan.Stages {
		w.writeStage(md, stage)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the report title, the variant identity and the
// patient-group indications.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, plan entities.Plan, variant entities.Variant) {
	md.H1("ОТЧЕТ О ПЛАНЕ ЛЕЧЕНИЯ")
	md.PlainText("")

	md.H2("Основная информация")
	md.PlainText("")
	md.PlainTextf("**Тип перелома:** %s", plan.Variant)
	md.PlainText("")
	md.PlainTextf("**Код МКБ-10:** %s", variant.ICD10Code)
	md.PlainText("")

	md.H2("Показания для данной группы")
	md.PlainText("")
	md.PlainText(plan.GroupDescription)
	md.PlainText("")

	md.H2("План лечения")
}

// writeStage writes one treatment stage with its alternative methods and
// joint block.
func (w *MarkdownWriter) writeStage(md *markdown.Markdown, stage entities.Stage) {
	md.PlainText("")
	md.H3(stage.Name)

	if len(stage.Alternatives) > 0 {
		md.PlainText("")
		md.PlainText("**Альтернативные методы:**")
		for _, method := range stage.Alternatives {
			w.writeAlternative(md, method)
		}
	}

	// A joint block without nested methods has nothing to prescribe
	if stage.Joint != nil && len(stage.Joint.Methods) > 0 {
		w.writeJoint(md, stage.Joint)
	}
}

// writeAlternative writes one alternative method with its prescribing fields.
func (w *MarkdownWriter) writeAlternative(md *markdown.Markdown, method entities.Method) {
	md.PlainText("")
	md.PlainTextf("**%s**", method.DisplayName())
	if len(method.Indications) > 0 {
		md.PlainText("Показания:")
		md.BulletList(method.Indications...)
	}
	if len(method.Medicines) > 0 {
		md.PlainText("Лекарства:")
		md.BulletList(method.Medicines...)
	}
	if len(method.Materials) > 0 {
		md.PlainText("Материалы:")
		md.BulletList(method.Materials...)
	}
	if method.Recommendations != "" {
		md.PlainTextf("Рекомендации: %s", method.Recommendations)
	}
}

// writeJoint writes the joint block: shared indications and recommendations
// first, then each member method with its own medicines and materials.
func (w *MarkdownWriter) writeJoint(md *markdown.Markdown, joint *entities.Joint) {
	md.PlainText("")
	md.PlainText("**Совместные методы:**")
	if len(joint.Indications) > 0 {
		md.PlainText("Общие показания:")
		md.BulletList(joint.Indications...)
	}
	if joint.Recommendations != "" {
		md.PlainTextf("Общие рекомендации: %s", joint.Recommendations)
	}
	for _, method := range joint.Methods {
		md.PlainText("")
		md.PlainTextf("* %s", method.DisplayName())
		if len(method.Medicines) > 0 {
			md.PlainTextf("  Лекарства: %s", strings.Join(method.Medicines, ", "))
		}
		if len(method.Materials) > 0 {
			md.PlainTextf("  Материалы: %s", strings.Join(method.Materials, ", "))
		}
	}
}

// Filename returns the download name for a variant's treatment report.
func Filename(variantName string) string {
	return "treatment_plan_" + strings.ReplaceAll(variantName, " ", "_") + ".md"
}
