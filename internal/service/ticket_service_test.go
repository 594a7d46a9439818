package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type fakeTicketRepo struct {
	tickets   map[string]*domain.Ticket
	updateErr error
	updated   int
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	m := make(map[string]*domain.Ticket)
	for _, t := range tickets {
		m[t.ID] = t
	}
	return &fakeTicketRepo{tickets: m}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = "t-new"
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	r.updated++
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByToken(_ context.Context, token string) (*domain.Ticket, error) {
	for _, t := range r.tickets {
		if t.Token == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetViewByID(ctx context.Context, id string) (*domain.TicketView, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.TicketView{Ticket: *ticket}, nil
}

func (r *fakeTicketRepo) ListViews(_ context.Context, filter repository.TicketFilter) ([]domain.TicketView, error) {
	var out []domain.TicketView
	for _, t := range r.tickets {
		if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
			continue
		}
		out = append(out, domain.TicketView{Ticket: *t})
	}
	return out, nil
}

type fakeChangeRepo struct {
	entries   []domain.TicketChange
	createErr error
}

func (r *fakeChangeRepo) Create(_ context.Context, change *domain.TicketChange) error {
	if r.createErr != nil {
		return r.createErr
	}
	change.ID = "c"
	r.entries = append(r.entries, *change)
	return nil
}

func (r *fakeChangeRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketChange, error) {
	var out []domain.TicketChange
	for _, e := range r.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments []domain.TicketComment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	comment.ID = "cm"
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketComment, error) {
	var out []domain.TicketComment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "u-" + user.Email
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeRefRepo struct {
	entries  map[domain.ReferenceKind]map[int64]string
	statuses map[int64]domain.Status
}

func newFakeRefRepo() *fakeRefRepo {
	return &fakeRefRepo{
		entries: map[domain.ReferenceKind]map[int64]string{
			domain.KindCategory: {1: "hardware", 2: "software"},
			domain.KindPriority: {1: "low", 2: "high"},
		},
		statuses: map[int64]domain.Status{
			1: {ID: 1, Name: "open"},
			2: {ID: 2, Name: "in_progress"},
			3: {ID: 3, Name: "resolved", Terminal: true},
		},
	}
}

func (r *fakeRefRepo) Create(_ context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntry, error) {
	return &domain.ReferenceEntry{ID: 99, Name: name}, nil
}
func (r *fakeRefRepo) Rename(context.Context, domain.ReferenceKind, int64, string) error { return nil }
func (r *fakeRefRepo) Delete(context.Context, domain.ReferenceKind, int64) error         { return nil }

func (r *fakeRefRepo) GetByID(_ context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceEntry, error) {
	name, ok := r.entries[kind][id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.ReferenceEntry{ID: id, Name: name}, nil
}

func (r *fakeRefRepo) List(_ context.Context, kind domain.ReferenceKind) ([]domain.ReferenceEntry, error) {
	var out []domain.ReferenceEntry
	for id, name := range r.entries[kind] {
		out = append(out, domain.ReferenceEntry{ID: id, Name: name})
	}
	return out, nil
}

func (r *fakeRefRepo) CreateStatus(context.Context, *domain.Status) error { return nil }
func (r *fakeRefRepo) UpdateStatus(context.Context, *domain.Status) error { return nil }

func (r *fakeRefRepo) GetStatus(_ context.Context, id int64) (*domain.Status, error) {
	status, ok := r.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &status, nil
}

func (r *fakeRefRepo) ListStatuses(context.Context) ([]domain.Status, error) {
	out := make([]domain.Status, 0, len(r.statuses))
	for id := int64(1); id <= int64(len(r.statuses)); id++ {
		out = append(out, r.statuses[id])
	}
	return out, nil
}

func (r *fakeRefRepo) TerminalStatusID(context.Context) (int64, error) {
	for _, s := range r.statuses {
		if s.Terminal {
			return s.ID, nil
		}
	}
	return 0, pgx.ErrNoRows
}

type sentMail struct {
	to, technicianName, ticketTitle, ticketToken string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) SendAssignment(_ context.Context, to, technicianName, ticketTitle, ticketToken string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, technicianName, ticketTitle, ticketToken})
	return nil
}

type fixture struct {
	service *TicketService
	tickets *fakeTicketRepo
	changes *fakeChangeRepo
	sender  *fakeSender
	users   *fakeUserRepo
}

func newFixture(t *testing.T, tickets ...*domain.Ticket) *fixture {
	t.Helper()
	logger := zap.NewNop()
	ticketRepo := newFakeTicketRepo(tickets...)
	changeRepo := &fakeChangeRepo{}
	userRepo := &fakeUserRepo{users: map[string]*domain.User{
		"u1":   {ID: "u1", Name: "Dana", Email: "dana@example.com", Role: domain.RoleUser, Active: true},
		"tech": {ID: "tech", Name: "Sam", Email: "sam@example.com", Role: domain.RoleTechnician, Active: true},
	}}
	refRepo := newFakeRefRepo()
	sender := &fakeSender{}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  ticketRepo,
		ChangeRepo:  changeRepo,
		CommentRepo: &fakeCommentRepo{},
		UserRepo:    userRepo,
		RefRepo:     refRepo,
		Labels:      NewLabelResolver(refRepo, userRepo, nil, 0, logger),
		Sender:      sender,
		Dispatcher:  nil,
		Logger:      logger,
		Workflow:    WorkflowStatuses{InitialID: 1, TerminalID: 3},
	})
	return &fixture{service: svc, tickets: ticketRepo, changes: changeRepo, sender: sender, users: userRepo}
}

func technicianUser() *domain.User {
	return &domain.User{ID: "tech", Name: "Sam", Role: domain.RoleTechnician, Active: true}
}

func TestUpdateTicketAuditRowsInFieldOrder(t *testing.T) {
	f := newFixture(t, baseTicket())

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		StatusID:   i64Ptr(2),
		Title:      strPtr("Printer dead"),
		PriorityID: i64Ptr(1),
	})
	require.NoError(t, err)

	require.Len(t, f.changes.entries, 3)
	require.Equal(t, "title", f.changes.entries[0].Field)
	require.Equal(t, "priority", f.changes.entries[1].Field)
	require.Equal(t, "status", f.changes.entries[2].Field)

	require.Equal(t, "Title changed from Printer jam to Printer dead", f.changes.entries[0].Description)
	require.Equal(t, "Priority changed from high to low", f.changes.entries[1].Description)
	require.Equal(t, "Status changed from open to in_progress", f.changes.entries[2].Description)
	for _, entry := range f.changes.entries {
		require.Equal(t, domain.ChangeKindUpdated, entry.Kind)
		require.Equal(t, "tech", entry.ActorID)
	}
}

func TestUpdateTicketTerminalStatusRestampsWithoutAudit(t *testing.T) {
	ticket := baseTicket()
	ticket.StatusID = 3
	firstClose := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	ticket.ClosedAt = &firstClose
	f := newFixture(t, ticket)

	later := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return later }

	// Resubmitting the terminal status changes nothing field-wise, but
	// the closure timestamp still moves forward.
	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		StatusID: i64Ptr(3),
	})
	require.NoError(t, err)

	require.Empty(t, f.changes.entries)
	require.Empty(t, f.sender.sent)
	stored := f.tickets.tickets["t1"]
	require.NotNil(t, stored.ClosedAt)
	require.Equal(t, later, *stored.ClosedAt)
}

func TestUpdateTicketAssignmentSendsOneNotification(t *testing.T) {
	ticket := baseTicket()
	f := newFixture(t, ticket)
	tech := "tech"

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		SetTechnician: true,
		TechnicianID:  &tech,
	})
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	require.Equal(t, "sam@example.com", f.sender.sent[0].to)
	require.Equal(t, "Sam", f.sender.sent[0].technicianName)

	require.Len(t, f.changes.entries, 1)
	require.Equal(t, "Technician changed from Unassigned to Sam", f.changes.entries[0].Description)
	require.Equal(t, "Unassigned", *f.changes.entries[0].OldValue)
	require.Equal(t, "Sam", *f.changes.entries[0].NewValue)
}

func TestUpdateTicketUnassignDoesNotNotify(t *testing.T) {
	ticket := baseTicket()
	tech := "tech"
	ticket.TechnicianID = &tech
	f := newFixture(t, ticket)

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		SetTechnician: true,
	})
	require.NoError(t, err)

	require.Empty(t, f.sender.sent)
	require.Len(t, f.changes.entries, 1)
	require.Equal(t, "Technician changed from Sam to Unassigned", f.changes.entries[0].Description)
}

func TestUpdateTicketUnknownTechnicianLabel(t *testing.T) {
	ticket := baseTicket()
	ghost := "ghost"
	ticket.TechnicianID = &ghost
	f := newFixture(t, ticket)
	tech := "tech"

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		SetTechnician: true,
		TechnicianID:  &tech,
	})
	require.NoError(t, err)

	require.Len(t, f.changes.entries, 1)
	require.Equal(t, "Technician changed from Unknown to Sam", f.changes.entries[0].Description)
}

func TestUpdateTicketSenderFailureIsAbsorbed(t *testing.T) {
	f := newFixture(t, baseTicket())
	f.sender.err = errors.New("smtp down")
	tech := "tech"

	view, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		SetTechnician: true,
		TechnicianID:  &tech,
	})
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, f.changes.entries, 1)
}

func TestUpdateTicketUpdateFailureWritesNoAudit(t *testing.T) {
	f := newFixture(t, baseTicket())
	f.tickets.updateErr = errors.New("connection reset")

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		Title: strPtr("Printer dead"),
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
	require.Empty(t, f.changes.entries)
	require.Empty(t, f.sender.sent)
}

func TestUpdateTicketAuditFailureSurfaces(t *testing.T) {
	f := newFixture(t, baseTicket())
	f.changes.createErr = errors.New("disk full")

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{
		Title: strPtr("Printer dead"),
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
	// The ticket update itself already went through.
	require.Equal(t, 1, f.tickets.updated)
}

func TestUpdateTicketNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "missing", TicketPatch{
		Title: strPtr("x"),
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestUpdateTicketEmptyPatchRejected(t *testing.T) {
	f := newFixture(t, baseTicket())

	_, err := f.service.UpdateTicket(context.Background(), technicianUser(), "t1", TicketPatch{})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateTicketPermissions(t *testing.T) {
	creator := &domain.User{ID: "u1", Name: "Dana", Role: domain.RoleUser, Active: true}
	stranger := &domain.User{ID: "u2", Name: "Alex", Role: domain.RoleUser, Active: true}

	t.Run("creator may edit own open ticket", func(t *testing.T) {
		f := newFixture(t, baseTicket())
		_, err := f.service.UpdateTicket(context.Background(), creator, "t1", TicketPatch{
			Description: strPtr("It also smells of smoke now"),
		})
		require.NoError(t, err)
	})

	t.Run("creator may not touch triage fields", func(t *testing.T) {
		f := newFixture(t, baseTicket())
		_, err := f.service.UpdateTicket(context.Background(), creator, "t1", TicketPatch{
			StatusID: i64Ptr(2),
		})
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("stranger may not edit at all", func(t *testing.T) {
		f := newFixture(t, baseTicket())
		_, err := f.service.UpdateTicket(context.Background(), stranger, "t1", TicketPatch{
			Title: strPtr("hijack"),
		})
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("creator may not edit closed ticket", func(t *testing.T) {
		ticket := baseTicket()
		closed := time.Now()
		ticket.ClosedAt = &closed
		f := newFixture(t, ticket)
		_, err := f.service.UpdateTicket(context.Background(), creator, "t1", TicketPatch{
			Title: strPtr("reopen please"),
		})
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "CONFLICT", domainErr.Code)
	})
}

func TestCreateTicketWritesCreatedAuditRow(t *testing.T) {
	f := newFixture(t)
	creator := &domain.User{ID: "u1", Role: domain.RoleUser, Active: true}

	view, err := f.service.CreateTicket(context.Background(), creator, TicketCreateInput{
		Title:       "Laptop won't boot",
		Description: "Black screen on power-up",
		CategoryID:  1,
		PriorityID:  2,
	})
	require.NoError(t, err)
	require.NotEmpty(t, view.Token)
	require.Equal(t, int64(1), view.StatusID)

	require.Len(t, f.changes.entries, 1)
	require.Equal(t, domain.ChangeKindCreated, f.changes.entries[0].Kind)
}

func TestCreateTicketUnknownCategoryRejected(t *testing.T) {
	f := newFixture(t)
	creator := &domain.User{ID: "u1", Role: domain.RoleUser, Active: true}

	_, err := f.service.CreateTicket(context.Background(), creator, TicketCreateInput{
		Title:       "x",
		Description: "y",
		CategoryID:  42,
		PriorityID:  2,
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestListTicketsScopesNonManagersToOwnTickets(t *testing.T) {
	mine := baseTicket()
	other := baseTicket()
	other.ID = "t2"
	other.CreatorID = "u2"
	f := newFixture(t, mine, other)

	creator := &domain.User{ID: "u1", Role: domain.RoleUser, Active: true}
	views, err := f.service.ListTickets(context.Background(), creator, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "t1", views[0].ID)

	views, err = f.service.ListTickets(context.Background(), technicianUser(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
}

func TestResolveWorkflowStatuses(t *testing.T) {
	refs := newFakeRefRepo()
	workflow, err := ResolveWorkflowStatuses(context.Background(), refs, 99)
	require.NoError(t, err)
	require.Equal(t, int64(1), workflow.InitialID)
	require.Equal(t, int64(3), workflow.TerminalID)
}
