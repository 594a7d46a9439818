package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newTestResolver() *LabelResolver {
	users := &fakeUserRepo{users: map[string]*domain.User{
		"tech": {ID: "tech", Name: "Sam"},
	}}
	return NewLabelResolver(newFakeRefRepo(), users, nil, 0, zap.NewNop())
}

func TestTechnicianSentinels(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	require.Equal(t, "Unassigned", r.Technician(ctx, nil))

	ghost := "ghost"
	require.Equal(t, "Unknown", r.Technician(ctx, &ghost))

	tech := "tech"
	require.Equal(t, "Sam", r.Technician(ctx, &tech))
}

func TestFieldLabelsResolvesReferences(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	oldLabel, newLabel := r.FieldLabels(ctx, FieldChange{Field: FieldCategory, OldRef: 1, NewRef: 2})
	require.Equal(t, "hardware", oldLabel)
	require.Equal(t, "software", newLabel)

	oldLabel, newLabel = r.FieldLabels(ctx, FieldChange{Field: FieldStatus, OldRef: 1, NewRef: 3})
	require.Equal(t, "open", oldLabel)
	require.Equal(t, "resolved", newLabel)
}

func TestFieldLabelsPassesPlainTextThrough(t *testing.T) {
	r := newTestResolver()

	oldLabel, newLabel := r.FieldLabels(context.Background(), FieldChange{
		Field: FieldTitle, OldText: "a", NewText: "b",
	})
	require.Equal(t, "a", oldLabel)
	require.Equal(t, "b", newLabel)
}

func TestOrphanedReferenceDegradesToEmptyLabel(t *testing.T) {
	r := newTestResolver()

	oldLabel, newLabel := r.FieldLabels(context.Background(), FieldChange{
		Field: FieldCategory, OldRef: 404, NewRef: 1,
	})
	require.Equal(t, "", oldLabel)
	require.Equal(t, "hardware", newLabel)
}
