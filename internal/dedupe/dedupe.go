package dedupe

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Result est la réponse HTTP capturée, partagée entre tous les appelants
// d'une même lecture en vol
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Deduplicator rabat les lectures idempotentes identiques et concurrentes
// sur un seul calcul. L'entrée vit exactement le temps d'un calcul:
// singleflight retire la clé dès que la fonction retourne, succès ou échec.
// La mise en cache au-delà, c'est le travail de respcache, pas le sien.
type Deduplicator struct {
	group singleflight.Group
}

func New() *Deduplicator {
	return &Deduplicator{}
}

// Do exécute compute au plus une fois par clé pour un rafale d'appels
// concurrents. Tous les appelants reçoivent le même résultat ou la même
// erreur. Un appelant dont le contexte est annulé cesse simplement
// d'attendre: le calcul continue pour les autres abonnés.
func (d *Deduplicator) Do(ctx context.Context, key string, compute func() (*Result, error)) (*Result, bool, error) {
	ch := d.group.DoChan(key, func() (interface{}, error) {
		return compute()
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*Result), res.Shared, nil
	}
}

// Key normalise (méthode, chemin, query) en clé de déduplication.
// Les paramètres sont triés pour que ?a=1&b=2 et ?b=2&a=1 partagent la clé.
func Key(method, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(path)

	if len(query) > 0 {
		names := make([]string, 0, len(query))
		for name := range query {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteByte('?')
		for _, name := range names {
			values := append([]string(nil), query[name]...)
			sort.Strings(values)
			for _, value := range values {
				b.WriteString(name)
				b.WriteByte('=')
				b.WriteString(value)
				b.WriteByte('&')
			}
		}
	}
	return b.String()
}
