package respcache

import (
	"sync"
	"time"
)

// Class choisit la durée de vie d'une entrée selon le type de lecture
type Class int

const (
	// ClassDefault: lectures sans profil particulier (5 minutes)
	ClassDefault Class = iota
	// ClassLong: agrégats coûteux, arènes, leaderboard, feed (5 minutes
	// côté process, 10 minutes côté CDN via s-maxage)
	ClassLong
	// ClassShort: données liées à un utilisateur (1 minute)
	ClassShort
)

const (
	ttlDefault = 5 * time.Minute
	ttlLong    = 5 * time.Minute
	ttlShort   = time.Minute
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache mémorise les réponses des lectures coûteuses par clé, avec
// expiration par TTL uniquement: les écritures n'invalident rien
// (la fraîcheur est bornée par la classe, pas par un signal d'écriture).
// La clé doit porter tout ce qui influence le résultat: pagination,
// filtres, identifiant d'arène.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retourne la valeur si présente et non expirée
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set enregistre la valeur avec le TTL de sa classe
func (c *Cache) Set(key string, value interface{}, class Class) {
	ttl := ttlDefault
	switch class {
	case ClassLong:
		ttl = ttlLong
	case ClassShort:
		ttl = ttlShort
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Size retourne le nombre d'entrées, expirées comprises (tests)
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
