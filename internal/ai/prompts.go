package ai

import (
	"bytes"
	"fmt"
	"text/template"
)

// Field names of a finding object. The response parser depends on them.
const (
	FieldIssue      = "issue"
	FieldFile       = "file"
	FieldObjectName = "object_name"
	FieldFirstLine  = "firstLine"
	FieldLastLine   = "lastLine"
)

const (
	reviewInstructionsEN = `You are a senior engineer reviewing a pull request.
The user message is a JSON array of changed files. Each element has "filename", "status" and "patch" (a unified diff fragment; it may be missing for binary files).

Rules:
- Review every patch independently of the other patches.
- Never flag unused code, functions, files, structures or variables.
- Never suggest refactors, cosmetic or visual changes.
- Never include positive or approving remarks.
- Never report that a file was added or deleted unless there is a substantive issue in it.
- Be as terse as possible. Do not quote source code or identifiers in the issue text.

Output format:
- If there are no issues, answer with an empty JSON object: {}
- Otherwise answer with a JSON array of objects, each with exactly these fields:
  "{{.Issue}}": string, the problem found
  "{{.File}}": string, the filename the problem is in
  "{{.ObjectName}}": string, the function or object the problem concerns
  "{{.FirstLine}}": integer, first line of the problem in the new file
  "{{.LastLine}}": integer, last line of the problem in the new file
Answer with JSON only, no markdown and no extra text.`

	reviewInstructionsES = `Sos un ingeniero senior revisando un pull request.
El mensaje del usuario es un array JSON de archivos modificados. Cada elemento tiene "filename", "status" y "patch" (un fragmento de diff unificado; puede faltar en archivos binarios).

Reglas:
- Revisá cada patch de forma independiente de los demás.
- Nunca marques código, funciones, archivos, estructuras o variables sin uso.
- Nunca sugieras refactors ni cambios cosméticos o visuales.
- Nunca incluyas comentarios positivos o de aprobación.
- Nunca reportes que un archivo fue agregado o eliminado salvo que tenga un problema real.
- Sé lo más breve posible. No cites código fuente ni identificadores en el texto del problema.

Formato de salida:
- Si no hay problemas, respondé con un objeto JSON vacío: {}
- Si hay problemas, respondé con un array JSON de objetos, cada uno con exactamente estos campos:
  "{{.Issue}}": string, el problema encontrado
  "{{.File}}": string, el archivo donde está el problema
  "{{.ObjectName}}": string, la función u objeto afectado
  "{{.FirstLine}}": entero, primera línea del problema en el archivo nuevo
  "{{.LastLine}}": entero, última línea del problema en el archivo nuevo
Respondé solo con JSON, sin markdown y sin texto adicional. Escribí el texto de cada problema en español.`
)

type fieldNames struct {
	Issue      string
	File       string
	ObjectName string
	FirstLine  string
	LastLine   string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}

// GetReviewInstructionsTemplate returns the reviewing policy template for a language.
func GetReviewInstructionsTemplate(lang string) string {
	switch lang {
	case "es":
		return reviewInstructionsES
	default:
		return reviewInstructionsEN
	}
}

// ReviewInstructions returns the fixed system instructions for lang with the
// finding field names filled in.
func ReviewInstructions(lang string) (string, error) {
	return RenderPrompt("reviewInstructions", GetReviewInstructionsTemplate(lang), fieldNames{
		Issue:      FieldIssue,
		File:       FieldFile,
		ObjectName: FieldObjectName,
		FirstLine:  FieldFirstLine,
		LastLine:   FieldLastLine,
	})
}
