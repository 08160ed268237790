package index

import (
	"net/http"

	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

// Registry is the corpus: every known document id with its raw text. It is
// the universe used to complement NOT operands.
type Registry struct {
	docs map[string]string
}

func newRegistry() *Registry {
	return &Registry{docs: make(map[string]string)}
}

// add registers a document. Registering the same id twice is an error; the
// first text is kept.
func (r *Registry) add(doc Document) error {
	if _, exists := r.docs[doc.ID]; exists {
		return apperrors.Newf(apperrors.ErrDuplicateDocument, http.StatusConflict,
			"document id %q supplied more than once", doc.ID)
	}
	r.docs[doc.ID] = doc.Text
	return nil
}

func (r *Registry) Contains(id string) bool {
	_, ok := r.docs[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.docs)
}

// IDs returns a fresh copy of the full document set.
func (r *Registry) IDs() DocSet {
	ids := make(DocSet, len(r.docs))
	for id := range r.docs {
		ids[id] = struct{}{}
	}
	return ids
}

func (r *Registry) Text(id string) (string, bool) {
	text, ok := r.docs[id]
	return text, ok
}
