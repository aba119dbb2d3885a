package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Valeurs par défaut, calibrées pour 20k+ utilisateurs concurrents
const (
	DefaultWindow        = 60 * time.Second
	DefaultMaxRequests   = 100
	DefaultSweepInterval = 5 * time.Minute
)

// clientWindow compte les requêtes d'un client sur la fenêtre courante
type clientWindow struct {
	count   int
	resetAt time.Time
}

// Verdict est le résultat d'un passage par le limiteur
type Verdict struct {
	Allowed    bool
	RetryAfter int // secondes avant la prochaine fenêtre, 0 si autorisé
}

// Limiter limite le nombre de requêtes par client sur une fenêtre fixe.
// Une instance par processus, injectée dans la chaîne de middlewares
// (pas de map globale ambiante, les tests créent leurs propres instances).
type Limiter struct {
	mu      sync.Mutex
	windows map[string]clientWindow

	window time.Duration
	max    int
	now    func() time.Time
}

func New(window time.Duration, max int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxRequests
	}
	return &Limiter{
		windows: make(map[string]clientWindow),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Admit décide si la requête d'un client passe ou non.
// Lecture, décision et mutation se font sous le même verrou: deux requêtes
// simultanées du même client ne peuvent pas toutes les deux voir count < max.
// Ne retourne jamais d'erreur: en cas de doute on laisse passer.
func (l *Limiter) Admit(clientKey string) Verdict {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientKey]
	if !ok || !now.Before(w.resetAt) {
		// Première requête ou fenêtre expirée: nouvelle fenêtre, count = 1
		l.windows[clientKey] = clientWindow{count: 1, resetAt: now.Add(l.window)}
		return Verdict{Allowed: true}
	}

	if w.count < l.max {
		w.count++
		l.windows[clientKey] = w
		return Verdict{Allowed: true}
	}

	retry := int((w.resetAt.Sub(now) + time.Second - 1) / time.Second)
	if retry < 1 {
		retry = 1
	}
	return Verdict{Allowed: false, RetryAfter: retry}
}

// Sweep supprime les fenêtres expirées pour borner la mémoire,
// quel que soit le nombre de clients distincts vus depuis le démarrage
func (l *Limiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// StartSweeper lance le nettoyage périodique en tâche de fond.
// Le ticker tourne indépendamment du trafic et s'arrête avec le contexte.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

// Size retourne le nombre de fenêtres suivies (utilisé par les tests)
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
