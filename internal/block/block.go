package block

// LearningBlock is the canonical generation output. The JSON field names are
// the wire contract shared by every backend; clients depend on them exactly.
type LearningBlock struct {
	TitreDuBloc      string     `json:"titre_du_bloc"`
	ResumeConceptuel string     `json:"resume_conceptuel"`
	FormulesCles     []string   `json:"formules_cles"`
	Analogie         string     `json:"analogie"`
	Daily5           []string   `json:"daily_5"`
	Quiz             []QuizItem `json:"quiz"`
}

// QuizItem is a single multiple-choice question with four options labeled A-D.
type QuizItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explication string   `json:"explication"`
}

// Daily5Count is the required number of takeaway points per block.
const Daily5Count = 5

// QuizOptionCount is the required number of options per quiz item.
const QuizOptionCount = 4
