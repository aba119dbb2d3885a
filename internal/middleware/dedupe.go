package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
)

// Dedupe rabat les GET identiques et concurrents sur une seule exécution
// du handler. Réservé aux lectures idempotentes: tout autre verbe passe
// tel quel. Le calcul est détaché du contexte du premier appelant pour
// qu'une annulation n'affecte pas les autres abonnés.
func Dedupe(deduper *dedupe.Deduplicator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
			res, _, err := deduper.Do(r.Context(), key, func() (*dedupe.Result, error) {
				capture := newCaptureWriter()
				detached := r.WithContext(context.WithoutCancel(r.Context()))
				next.ServeHTTP(capture, detached)
				return capture.result(), nil
			})
			if err != nil {
				// Contexte de l'appelant annulé: plus personne à servir ici
				return
			}

			if res.ContentType != "" {
				w.Header().Set("Content-Type", res.ContentType)
			}
			w.WriteHeader(res.Status)
			w.Write(res.Body)
		})
	}
}

// captureWriter enregistre la réponse du handler pour la repartager
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header {
	return c.header
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
}

func (c *captureWriter) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *captureWriter) result() *dedupe.Result {
	return &dedupe.Result{
		Status:      c.status,
		ContentType: c.header.Get("Content-Type"),
		Body:        c.buf.Bytes(),
	}
}
