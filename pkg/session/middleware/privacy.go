package middleware

import (
	"context"
	"regexp"

	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
)

// MaskedValue replaces answers to sensitive questions at rest.
const MaskedValue = "***"

type privacyMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPrivacyMiddleware masks the stored value of every answer whose
// question ID matches one of the patterns. Masking happens on Save only;
// the in-memory session the navigator works on keeps the real values, and
// conditional routing has already happened by the time the session is
// persisted.
func NewPrivacyMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &privacyMiddleware{next: next, patterns: patterns}
	}
}

func (m *privacyMiddleware) Save(ctx context.Context, sess *domain.TourSession) error {
	cloned := *sess
	cloned.Answers = make(domain.AnswerSet, len(sess.Answers))
	for id, ans := range sess.Answers {
		if m.sensitive(id) {
			cloned.Answers[id] = mask(ans)
		} else {
			cloned.Answers[id] = ans
		}
	}
	return m.next.Save(ctx, &cloned)
}

func (m *privacyMiddleware) Load(ctx context.Context, id string) (*domain.TourSession, error) {
	return m.next.Load(ctx, id)
}

func (m *privacyMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *privacyMiddleware) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error) {
	return m.next.ListByUser(ctx, userID, limit)
}

func (m *privacyMiddleware) sensitive(questionID string) bool {
	for _, p := range m.patterns {
		if p.MatchString(questionID) {
			return true
		}
	}
	return false
}

// mask keeps the answer's shape so list-typed answers stay lists.
func mask(ans domain.Answer) domain.Answer {
	if ans.IsList() {
		masked := make([]string, len(ans.Values()))
		for i := range masked {
			masked[i] = MaskedValue
		}
		return domain.ListAnswer(masked...)
	}
	return domain.ScalarAnswer(MaskedValue)
}
