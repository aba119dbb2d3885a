package skillblend

import (
	"fmt"
	"strings"
)

// Rule associe une paire non ordonnée de skills à un bonus débloqué
// quand l'apprenant sélectionne les deux ensemble
type Rule struct {
	SkillA    string `json:"skillA"`
	SkillB    string `json:"skillB"`
	ResultTag string `json:"resultTag"`
	BonusXP   int    `json:"bonusXp"`
}

// Blend est le résultat d'une combinaison réussie. Le BonusXP est
// destiné à passer dans progression.ApplyActivity comme delta.
type Blend struct {
	ResultTag string `json:"resultTag"`
	BonusXP   int    `json:"bonusXp"`
}

// Resolver résout une paire de skills contre la table de combinaisons.
// La table est figée au chargement: une paire couverte par deux règles
// est une erreur de configuration détectée ici, jamais une ambiguïté
// tranchée à l'exécution.
type Resolver struct {
	rules map[string]Blend
}

func NewResolver(rules []Rule) (*Resolver, error) {
	table := make(map[string]Blend, len(rules))
	for _, r := range rules {
		key := pairKey(r.SkillA, r.SkillB)
		if _, exists := table[key]; exists {
			return nil, fmt.Errorf("overlapping blend rules for pair (%s, %s)", r.SkillA, r.SkillB)
		}
		table[key] = Blend{ResultTag: r.ResultTag, BonusXP: r.BonusXP}
	}
	return &Resolver{rules: table}, nil
}

// Resolve cherche la combinaison pour une paire, dans n'importe quel ordre:
// Resolve(x, y) et Resolve(y, x) donnent toujours le même résultat.
// Pas de combinaison n'est pas une erreur, juste un ok=false.
func (r *Resolver) Resolve(skillA, skillB string) (Blend, bool) {
	blend, ok := r.rules[pairKey(skillA, skillB)]
	return blend, ok
}

// pairKey normalise la paire: minuscules, ordre lexicographique
func pairKey(a, b string) string {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if b < a {
		a, b = b, a
	}
	return a + "+" + b
}

// DefaultRules est la table de combinaisons de la plateforme
func DefaultRules() []Rule {
	return []Rule{
		{SkillA: "web", SkillB: "ai", ResultTag: "intelligent-apps", BonusXP: 150},
		{SkillA: "web", SkillB: "design", ResultTag: "frontend-craft", BonusXP: 100},
		{SkillA: "ai", SkillB: "data", ResultTag: "machine-learning", BonusXP: 200},
		{SkillA: "security", SkillB: "web", ResultTag: "secure-web", BonusXP: 150},
		{SkillA: "cloud", SkillB: "devops", ResultTag: "platform-engineering", BonusXP: 150},
		{SkillA: "mobile", SkillB: "design", ResultTag: "app-polish", BonusXP: 100},
		{SkillA: "data", SkillB: "cloud", ResultTag: "data-platform", BonusXP: 150},
	}
}
