package ranking

import "sort"

// UserScore est un score brut, avant attribution des rangs
type UserScore struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
	Score    int    `json:"score"`
}

// Entry est une ligne de classement, rang compris
type Entry struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// Rank trie par score décroissant et attribue les rangs.
// Égalité de score: départage déterministe par userId croissant, pour que
// deux appels sur la même entrée donnent toujours le même ordre.
// Numérotation en "standard competition ranking": deux deuxièmes ex aequo
// prennent tous les deux le rang 2 et le suivant prend le rang 4.
func Rank(scores []UserScore) []Entry {
	sorted := append([]UserScore(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		rank := i + 1
		if i > 0 && s.Score == sorted[i-1].Score {
			rank = entries[i-1].Rank
		}
		entries[i] = Entry{
			UserID:   s.UserID,
			UserName: s.UserName,
			Avatar:   s.Avatar,
			Score:    s.Score,
			Rank:     rank,
		}
	}
	return entries
}

// Podium réordonne les trois premiers pour l'affichage: rang 2 à gauche,
// rang 1 au centre, rang 3 à droite. Pure transformation de présentation,
// jamais une règle de classement. Moins de trois entrées donne un podium
// partiel, pas une erreur.
func Podium(ranked []Entry) []Entry {
	switch len(ranked) {
	case 0:
		return []Entry{}
	case 1:
		return []Entry{ranked[0]}
	case 2:
		return []Entry{ranked[1], ranked[0]}
	default:
		return []Entry{ranked[1], ranked[0], ranked[2]}
	}
}
