package prompt

import (
	"strings"
	"testing"
)

func TestAssembleDirect(t *testing.T) {
	a := NewAssembler(0)
	req := Request{Sujet: "Thermodynamique", Niveau: "Intermédiaire", Objectif: "Examen final"}

	p := a.Assemble(req, "")

	if p.System != SystemInstruction {
		t.Error("expected the fixed system instruction")
	}
	if strings.Contains(p.User, "Contexte extrait du document") {
		t.Error("direct prompt must not contain a context section")
	}
	for _, want := range []string{"Sujet: Thermodynamique", "Niveau: Intermédiaire", "Objectif: Examen final"} {
		if !strings.Contains(p.User, want) {
			t.Errorf("expected user content to contain %q, got:\n%s", want, p.User)
		}
	}
	if !strings.HasSuffix(p.User, "Génère un bloc d'apprentissage complet en JSON.") {
		t.Errorf("expected direct generation directive, got:\n%s", p.User)
	}
}

func TestAssembleWithContext(t *testing.T) {
	a := NewAssembler(0)
	req := Request{Sujet: "Photosynthèse", Niveau: "Débutant", Objectif: "Curiosité"}

	p := a.Assemble(req, "Les plantes convertissent la lumière en énergie chimique.")

	ctxIdx := strings.Index(p.User, "Contexte extrait du document")
	sujetIdx := strings.Index(p.User, "Sujet: Photosynthèse")
	if ctxIdx < 0 || sujetIdx < 0 || ctxIdx > sujetIdx {
		t.Errorf("expected context section before topic, got:\n%s", p.User)
	}
	if !strings.HasSuffix(p.User, "basé sur CE document en JSON.") {
		t.Errorf("expected document-grounded directive, got:\n%s", p.User)
	}
}

func TestAssembleTruncatesContext(t *testing.T) {
	a := NewAssembler(0)
	req := Request{Sujet: "X", Niveau: "Y", Objectif: "Z"}

	t.Run("over the cap", func(t *testing.T) {
		long := strings.Repeat("a", DefaultContextLimit+500)
		p := a.Assemble(req, long)

		if strings.Contains(p.User, long) {
			t.Error("context over the cap must be truncated")
		}
		if !strings.Contains(p.User, long[:DefaultContextLimit]) {
			t.Error("expected exactly the first 4000 characters of context")
		}
		if strings.Contains(p.User, long[:DefaultContextLimit+1]) {
			t.Error("context exceeded the cap")
		}
	})

	t.Run("under the cap", func(t *testing.T) {
		short := strings.Repeat("b", 100)
		p := a.Assemble(req, short)
		if !strings.Contains(p.User, short) {
			t.Error("short context must be embedded unmodified")
		}
	})

	t.Run("multibyte runes count as single characters", func(t *testing.T) {
		long := strings.Repeat("é", DefaultContextLimit+10)
		p := a.Assemble(req, long)
		want := strings.Repeat("é", DefaultContextLimit)
		if !strings.Contains(p.User, want) {
			t.Error("expected 4000 runes of multibyte context")
		}
		if strings.Contains(p.User, want+"é") {
			t.Error("rune truncation exceeded the cap")
		}
	})
}

func TestWithDefaults(t *testing.T) {
	got := Request{}.WithDefaults()
	if got.Sujet != DefaultSujet || got.Niveau != DefaultNiveau || got.Objectif != DefaultObjectif {
		t.Errorf("unexpected defaults: %+v", got)
	}

	kept := Request{Sujet: "Optique", Niveau: "Avancé", Objectif: "Examen"}.WithDefaults()
	if kept.Sujet != "Optique" || kept.Niveau != "Avancé" || kept.Objectif != "Examen" {
		t.Errorf("populated fields must be kept: %+v", kept)
	}
}
