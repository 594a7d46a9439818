package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Sentinel labels for the technician reference. A ticket with no
// technician is "Unassigned"; a technician id that no longer resolves
// is "Unknown" so the audit trail tells the two states apart.
const (
	LabelUnassigned = "Unassigned"
	LabelUnknown    = "Unknown"
)

// LabelResolver maps raw reference ids to display labels for audit
// descriptions. Reference-integrity loss is never fatal here: orphaned
// lookup ids degrade to an empty label with a warning.
type LabelResolver struct {
	refs   repository.ReferenceRepository
	users  repository.UserRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewLabelResolver builds a resolver. The cache may be nil, in which
// case every lookup goes to Postgres.
func NewLabelResolver(refs repository.ReferenceRepository, users repository.UserRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *LabelResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LabelResolver{refs: refs, users: users, cache: cache, ttl: ttl, logger: logger}
}

// FieldLabels resolves both sides of a change descriptor to display
// labels. Plain fields pass their raw values through.
func (r *LabelResolver) FieldLabels(ctx context.Context, change FieldChange) (oldLabel, newLabel string) {
	switch change.Field {
	case FieldCategory:
		return r.reference(ctx, domain.KindCategory, change.OldRef), r.reference(ctx, domain.KindCategory, change.NewRef)
	case FieldPriority:
		return r.reference(ctx, domain.KindPriority, change.OldRef), r.reference(ctx, domain.KindPriority, change.NewRef)
	case FieldStatus:
		return r.status(ctx, change.OldRef), r.status(ctx, change.NewRef)
	case FieldTechnician:
		return r.Technician(ctx, change.OldUser), r.Technician(ctx, change.NewUser)
	default:
		return change.OldText, change.NewText
	}
}

// Technician resolves a technician reference to a display name using
// the sentinel rules.
func (r *LabelResolver) Technician(ctx context.Context, id *string) string {
	if id == nil {
		return LabelUnassigned
	}
	user, err := r.users.GetByID(ctx, *id)
	if err != nil {
		r.logger.Warn("technician reference did not resolve",
			zap.String("user_id", *id), zap.Error(err))
		return LabelUnknown
	}
	return user.Name
}

func (r *LabelResolver) reference(ctx context.Context, kind domain.ReferenceKind, id int64) string {
	key := fmt.Sprintf("label:%s:%d", kind, id)
	if label, ok := r.cached(ctx, key); ok {
		return label
	}

	entry, err := r.refs.GetByID(ctx, kind, id)
	if err != nil {
		r.logger.Warn("reference did not resolve",
			zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		return ""
	}

	r.store(ctx, key, entry.Name)
	return entry.Name
}

func (r *LabelResolver) status(ctx context.Context, id int64) string {
	key := fmt.Sprintf("label:statuses:%d", id)
	if label, ok := r.cached(ctx, key); ok {
		return label
	}

	status, err := r.refs.GetStatus(ctx, id)
	if err != nil {
		r.logger.Warn("status reference did not resolve",
			zap.Int64("id", id), zap.Error(err))
		return ""
	}

	r.store(ctx, key, status.Name)
	return status.Name
}

// cached reads a label from Redis; any cache error degrades to a miss.
func (r *LabelResolver) cached(ctx context.Context, key string) (string, bool) {
	if r.cache == nil || r.cache.Client == nil {
		return "", false
	}
	label, err := r.cache.Client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return label, true
}

func (r *LabelResolver) store(ctx context.Context, key, label string) {
	if r.cache == nil || r.cache.Client == nil {
		return
	}
	if err := r.cache.Client.Set(ctx, key, label, r.ttl).Err(); err != nil {
		r.logger.Debug("label cache write failed", zap.String("key", key), zap.Error(err))
	}
}
