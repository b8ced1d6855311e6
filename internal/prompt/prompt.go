// Package prompt assembles generation requests against the fixed EduFlow
// instructional template. Pure data transformation, no I/O.
package prompt

import "strings"

// SystemInstruction is the fixed pedagogical contract sent with every
// generation request. The embedded JSON skeleton is the schema the
// normalizer enforces; keep the two in sync.
const SystemInstruction = `Tu es "EduFlow AI", un expert en pédagogie universitaire niveau Génie/Sciences.
Ton but: déconstruire des notions complexes en micro-blocs structurés.

STRUCTURE DE SORTIE (JSON):
{
  "titre_du_bloc": "...",
  "resume_conceptuel": "3-4 phrases vulgarisées",
  "formules_cles": ["formule1 en LaTeX", "formule2"],
  "analogie": "Comparaison vie réelle",
  "daily_5": ["Point 1", "Point 2", "Point 3", "Point 4", "Point 5"],
  "quiz": [
    {
      "question": "...",
      "options": ["A: ...", "B: ...", "C: ...", "D: ..."],
      "correct": "B",
      "explication": "..."
    }
  ]
}

Réponds UNIQUEMENT en JSON valide, sans texte avant ou après.`

// Defaults applied on the upload flow when the caller leaves fields empty.
const (
	DefaultSujet    = "Contenu principal du document"
	DefaultNiveau   = "Intermédiaire"
	DefaultObjectif = "Apprentissage"
)

// DefaultContextLimit caps how many characters of extracted document text are
// embedded in a prompt, bounding backend cost and staying inside prompt-size
// limits.
const DefaultContextLimit = 4000

// Request carries the caller-supplied generation parameters.
type Request struct {
	Sujet    string `json:"sujet" validate:"required"`
	Niveau   string `json:"niveau" validate:"required"`
	Objectif string `json:"objectif" validate:"required"`
}

// WithDefaults fills empty fields with the upload-flow defaults.
func (r Request) WithDefaults() Request {
	if r.Sujet == "" {
		r.Sujet = DefaultSujet
	}
	if r.Niveau == "" {
		r.Niveau = DefaultNiveau
	}
	if r.Objectif == "" {
		r.Objectif = DefaultObjectif
	}
	return r
}

// Payload is a fully assembled generation request. Backends decide how to
// map System and User onto their provider's request shape.
type Payload struct {
	System string
	User   string
}

// Assembler builds prompt payloads with a configurable context cap.
type Assembler struct {
	contextLimit int
}

// NewAssembler returns an Assembler. A non-positive limit falls back to
// DefaultContextLimit.
func NewAssembler(contextLimit int) *Assembler {
	if contextLimit <= 0 {
		contextLimit = DefaultContextLimit
	}
	return &Assembler{contextLimit: contextLimit}
}

// Assemble combines the fixed instruction, the request parameters and
// optional extracted document context into a payload. Context is truncated
// to the configured character cap; nothing else is.
func (a *Assembler) Assemble(req Request, context string) Payload {
	var b strings.Builder

	if context != "" {
		b.WriteString("Contexte extrait du document:\n")
		b.WriteString(truncateRunes(context, a.contextLimit))
		b.WriteString("\n\n")
	}

	b.WriteString("Sujet: ")
	b.WriteString(req.Sujet)
	b.WriteString("\nNiveau: ")
	b.WriteString(req.Niveau)
	b.WriteString("\nObjectif: ")
	b.WriteString(req.Objectif)
	b.WriteString("\n\n")

	if context != "" {
		b.WriteString("Génère un bloc d'apprentissage basé sur CE document en JSON.")
	} else {
		b.WriteString("Génère un bloc d'apprentissage complet en JSON.")
	}

	return Payload{System: SystemInstruction, User: b.String()}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
