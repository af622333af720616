package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/model"
)

// CreateToken generates a new API token for the user. The raw token value
// is returned exactly once; only its SHA-256 hash and a masked form are
// stored.
func (s *Store) CreateToken(ctx context.Context, userID uint, description string, expiresAt *time.Time) (*model.APIToken, string, error) {
	raw := cnst.APITokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	token := &model.APIToken{
		UserID:      userID,
		TokenHash:   hashToken(raw),
		MaskedToken: maskToken(raw),
		Description: description,
		ExpiresAt:   expiresAt,
	}
	if err := s.conn(ctx).Create(token).Error; err != nil {
		return nil, "", err
	}
	return token, raw, nil
}

// ListTokens returns the user's tokens in masked form.
func (s *Store) ListTokens(ctx context.Context, userID uint) ([]*model.APIToken, error) {
	var tokens []*model.APIToken
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&tokens).Error
	return tokens, err
}

// DeleteToken deletes one of the caller's tokens. Deleting another user's
// token is an access-denied error, not a silent no-op.
func (s *Store) DeleteToken(ctx context.Context, userID, tokenID uint) error {
	var token model.APIToken
	if err := s.conn(ctx).First(&token, tokenID).Error; err != nil {
		return translate(err)
	}
	if token.UserID != userID {
		return ErrAccessDenied
	}
	return s.conn(ctx).Delete(&token).Error
}

// TouchToken records the time a token was last used.
func (s *Store) TouchToken(ctx context.Context, tokenID uint) error {
	return s.conn(ctx).Model(&model.APIToken{}).
		Where("id = ?", tokenID).
		Update("last_used_at", time.Now()).Error
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// maskToken keeps the first and last four characters of the token value.
func maskToken(raw string) string {
	if len(raw) <= 8 {
		return raw
	}
	return raw[:4] + "..." + raw[len(raw)-4:]
}
