package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
)

// envelopeKey is the answer slot the ciphertext hides in. A stored session
// with this key is an envelope, not a real answer set.
const envelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new data. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are old keys to try when decryption fails, enabling
	// zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SessionStore
	config EncryptionConfig
}

// NewEncryptionMiddleware encrypts sessions at rest with AES-GCM. The
// stored envelope keeps the listing fields (user, tree, status, start
// date) in the clear so ListByUser works without decrypting everything;
// the path and answers are ciphertext only.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &encryptionMiddleware{next: next, config: config}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, sess *domain.TourSession) error {
	plainText, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	envelope := &domain.TourSession{
		ID:          sess.ID,
		TreeID:      sess.TreeID,
		UserID:      sess.UserID,
		Status:      sess.Status,
		Progress:    sess.Progress,
		DateStarted: sess.DateStarted,
		Answers: domain.AnswerSet{
			envelopeKey: domain.ScalarAnswer(base64.StdEncoding.EncodeToString(ciphertext)),
		},
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, id string) (*domain.TourSession, error) {
	envelope, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.open(envelope)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *encryptionMiddleware) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error) {
	envelopes, err := m.next.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.TourSession, 0, len(envelopes))
	for _, envelope := range envelopes {
		sess, err := m.open(envelope)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// open decrypts an envelope back into the real session. Sessions written
// before encryption was enabled pass through unchanged.
func (m *encryptionMiddleware) open(envelope *domain.TourSession) (*domain.TourSession, error) {
	blob, ok := envelope.Answers[envelopeKey]
	if !ok {
		return envelope, nil
	}
	ciphertext, err := base64.StdEncoding.DecodeString(blob.Value())
	if err != nil {
		return nil, fmt.Errorf("corrupt session envelope %s: %w", envelope.ID, err)
	}

	plainText, err := m.decryptWithRotation(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session %s: %w", envelope.ID, err)
	}

	var sess domain.TourSession
	if err := json.Unmarshal(plainText, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", envelope.ID, err)
	}
	return &sess, nil
}

// decryptWithRotation tries the active key first, then each fallback.
func (m *encryptionMiddleware) decryptWithRotation(ciphertext []byte) ([]byte, error) {
	plainText, err := decrypt(ciphertext, m.config.ActiveKey)
	if err == nil {
		return plainText, nil
	}
	for _, key := range m.config.FallbackKeys {
		if plainText, err := decrypt(ciphertext, key); err == nil {
			return plainText, nil
		}
	}
	return nil, errors.New("no configured key decrypts this session")
}

func encrypt(plainText, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plainText, nil), nil
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}
