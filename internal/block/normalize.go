package block

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PreviewLimit bounds the raw-response prefix attached to malformed-response
// errors, keeping error bodies small.
const PreviewLimit = 200

// rawBlock mirrors LearningBlock with pointer fields so a missing or null
// field is distinguishable from a present-but-empty one.
type rawBlock struct {
	TitreDuBloc      *string        `json:"titre_du_bloc"`
	ResumeConceptuel *string        `json:"resume_conceptuel"`
	FormulesCles     *[]string      `json:"formules_cles"`
	Analogie         *string        `json:"analogie"`
	Daily5           *[]string      `json:"daily_5"`
	Quiz             *[]rawQuizItem `json:"quiz"`
}

type rawQuizItem struct {
	Question    *string   `json:"question"`
	Options     *[]string `json:"options"`
	Correct     *string   `json:"correct"`
	Explication *string   `json:"explication"`
}

// Normalize turns raw backend output into a validated LearningBlock.
//
// Models reliably wrap structured output in markdown fencing despite the
// prompt's "JSON only" directive, so a single leading fence (json-tagged or
// bare) and a single trailing fence are stripped before parsing. No broader
// repair is attempted: recovering content out of arbitrary prose would risk
// silently accepting output that breaks the schema contract.
func Normalize(raw string) (*LearningBlock, error) {
	text := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(text, "```json"); ok {
		text = rest
	} else if rest, ok := strings.CutPrefix(text, "```"); ok {
		text = rest
	}
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !json.Valid([]byte(text)) {
		return nil, &MalformedResponseError{
			Preview: truncateRunes(raw, PreviewLimit),
			Err:     errors.New("not valid JSON"),
		}
	}

	var decoded rawBlock
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		// Valid JSON of the wrong shape (e.g. a bare array, or a string
		// where an object field is expected).
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &SchemaViolationError{Field: typeErr.Field, Reason: "wrong type"}
		}
		return nil, &MalformedResponseError{
			Preview: truncateRunes(raw, PreviewLimit),
			Err:     err,
		}
	}
	return decoded.validate()
}

func (r *rawBlock) validate() (*LearningBlock, error) {
	if r.TitreDuBloc == nil {
		return nil, missing("titre_du_bloc")
	}
	if r.ResumeConceptuel == nil {
		return nil, missing("resume_conceptuel")
	}
	if r.FormulesCles == nil {
		return nil, missing("formules_cles")
	}
	if r.Analogie == nil {
		return nil, missing("analogie")
	}
	if r.Daily5 == nil {
		return nil, missing("daily_5")
	}
	if len(*r.Daily5) != Daily5Count {
		return nil, &SchemaViolationError{
			Field:  "daily_5",
			Reason: fmt.Sprintf("expected exactly %d points, got %d", Daily5Count, len(*r.Daily5)),
		}
	}
	if r.Quiz == nil {
		return nil, missing("quiz")
	}

	out := &LearningBlock{
		TitreDuBloc:      *r.TitreDuBloc,
		ResumeConceptuel: *r.ResumeConceptuel,
		FormulesCles:     append([]string{}, *r.FormulesCles...),
		Analogie:         *r.Analogie,
		Daily5:           append([]string{}, *r.Daily5...),
		Quiz:             make([]QuizItem, 0, len(*r.Quiz)),
	}

	for i, q := range *r.Quiz {
		item, err := q.validate(i)
		if err != nil {
			return nil, err
		}
		out.Quiz = append(out.Quiz, item)
	}
	return out, nil
}

func (q *rawQuizItem) validate(i int) (QuizItem, error) {
	if q.Question == nil {
		return QuizItem{}, missing(quizField(i, "question"))
	}
	if q.Options == nil {
		return QuizItem{}, missing(quizField(i, "options"))
	}
	if len(*q.Options) != QuizOptionCount {
		return QuizItem{}, &SchemaViolationError{
			Field:  quizField(i, "options"),
			Reason: fmt.Sprintf("expected exactly %d options, got %d", QuizOptionCount, len(*q.Options)),
		}
	}
	if q.Correct == nil {
		return QuizItem{}, missing(quizField(i, "correct"))
	}
	switch *q.Correct {
	case "A", "B", "C", "D":
	default:
		return QuizItem{}, &SchemaViolationError{
			Field:  quizField(i, "correct"),
			Reason: fmt.Sprintf("%q is not one of the option labels A-D", *q.Correct),
		}
	}
	if q.Explication == nil {
		return QuizItem{}, missing(quizField(i, "explication"))
	}
	return QuizItem{
		Question:    *q.Question,
		Options:     append([]string{}, *q.Options...),
		Correct:     *q.Correct,
		Explication: *q.Explication,
	}, nil
}

func missing(field string) *SchemaViolationError {
	return &SchemaViolationError{Field: field, Reason: "missing or null"}
}

func quizField(i int, name string) string {
	return fmt.Sprintf("quiz[%d].%s", i, name)
}

// truncateRunes bounds s to limit characters without splitting a rune.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
