package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentSender delivers the technician-assignment notification.
// Delivery is strictly best-effort; errors are logged, never surfaced.
type AssignmentSender interface {
	SendAssignment(ctx context.Context, to, technicianName, ticketTitle, ticketToken string) error
}

// WorkflowStatuses pins the status ids the ticket workflow depends on,
// resolved once at startup.
type WorkflowStatuses struct {
	InitialID  int64
	TerminalID int64
}

// ResolveWorkflowStatuses reads the statuses table once and picks the
// first non-terminal row as the initial status and the terminal row as
// the resolution status. The configured fallback covers databases whose
// status rows predate the terminal flag.
func ResolveWorkflowStatuses(ctx context.Context, refs repository.ReferenceRepository, fallbackTerminalID int64) (WorkflowStatuses, error) {
	statuses, err := refs.ListStatuses(ctx)
	if err != nil {
		return WorkflowStatuses{}, err
	}

	resolved := WorkflowStatuses{TerminalID: fallbackTerminalID}
	for _, status := range statuses {
		if status.Terminal {
			resolved.TerminalID = status.ID
		} else if resolved.InitialID == 0 {
			resolved.InitialID = status.ID
		}
	}
	if resolved.InitialID == 0 {
		return WorkflowStatuses{}, errors.New("no non-terminal status configured")
	}
	return resolved, nil
}

// TicketService coordinates ticket workflows and the audit trail.
type TicketService struct {
	tickets  repository.TicketRepository
	changes  repository.TicketChangeRepository
	comments repository.TicketCommentRepository
	users    repository.UserRepository
	refs     repository.ReferenceRepository

	labels     *LabelResolver
	sender     AssignmentSender
	dispatcher events.Dispatcher
	logger     *zap.Logger
	workflow   WorkflowStatuses

	now func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	ChangeRepo  repository.TicketChangeRepository
	CommentRepo repository.TicketCommentRepository
	UserRepo    repository.UserRepository
	RefRepo     repository.ReferenceRepository
	Labels      *LabelResolver
	Sender      AssignmentSender
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Workflow    WorkflowStatuses
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		changes:    deps.ChangeRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		refs:       deps.RefRepo,
		labels:     deps.Labels,
		sender:     deps.Sender,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		workflow:   deps.Workflow,
		now:        time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	IncidentArea string
	CategoryID   int64
	PriorityID   int64
	ImageKey     *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	StatusID     *int64
	PriorityID   *int64
	CategoryID   *int64
	TechnicianID *string
	SearchTerm   *string
	Limit        int
	Offset       int
}

// CreateTicket opens a new ticket for the actor and writes the CREATED
// audit entry.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.TicketView, error) {
	if _, err := s.refs.GetByID(ctx, domain.KindCategory, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.refs.GetByID(ctx, domain.KindPriority, input.PriorityID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority_id": input.PriorityID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Token:        generateTicketToken(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		IncidentArea: strings.TrimSpace(input.IncidentArea),
		CategoryID:   input.CategoryID,
		PriorityID:   input.PriorityID,
		StatusID:     s.workflow.InitialID,
		CreatorID:    actor.ID,
		ImageKey:     input.ImageKey,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceFailure("ticket insert", err)
	}

	entry := &domain.TicketChange{
		TicketID:    ticket.ID,
		ActorID:     actor.ID,
		Kind:        domain.ChangeKindCreated,
		Field:       "ticket",
		Description: fmt.Sprintf("Ticket %s created", ticket.Token),
	}
	if err := s.changes.Create(ctx, entry); err != nil {
		return nil, apperrors.NewPersistenceFailure("audit append", err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Token:      ticket.Token,
			Title:      ticket.Title,
			CategoryID: ticket.CategoryID,
			PriorityID: ticket.PriorityID,
		},
	})

	return s.reload(ctx, ticket.ID)
}

// UpdateTicket applies a field patch to a ticket, appending one audit
// entry per changed field and notifying a newly assigned technician.
//
// The update itself failing aborts the call with no audit rows. An
// audit insert failing after the update is surfaced as a persistence
// failure even though the new ticket state is already durable.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, patch TicketPatch) (*domain.TicketView, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields proposed", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if !actor.Role.CanManageTickets() {
		if ticket.CreatorID != actor.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
		if patch.TouchesTriage() {
			return nil, apperrors.NewForbidden("triage fields require a technician role")
		}
		if ticket.ClosedAt != nil {
			return nil, apperrors.NewConflict("ticket is closed", nil)
		}
	}

	changes := DetectChanges(ticket, patch)

	s.applyPatch(ticket, patch)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewPersistenceFailure("ticket update", err)
	}

	for _, change := range changes {
		oldLabel, newLabel := s.labels.FieldLabels(ctx, change)
		entry := &domain.TicketChange{
			TicketID:    ticket.ID,
			ActorID:     actor.ID,
			Kind:        domain.ChangeKindUpdated,
			Field:       string(change.Field),
			OldValue:    &oldLabel,
			NewValue:    &newLabel,
			Description: changeMessage(change.Field, oldLabel, newLabel),
		}
		if err := s.changes.Create(ctx, entry); err != nil {
			// The ticket row is already durable; the caller must learn
			// the audit trail is incomplete.
			return nil, apperrors.NewPersistenceFailure("audit append", err)
		}
	}

	s.notifyAssignment(ctx, ticket, changes)

	if len(changes) > 0 {
		fields := make([]string, 0, len(changes))
		for _, change := range changes {
			fields = append(fields, string(change.Field))
		}
		s.publish(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload:  events.TicketUpdatedPayload{Fields: fields},
		})
	}

	return s.reload(ctx, ticket.ID)
}

// applyPatch writes every proposed value onto the snapshot, including
// values equal to the current ones. Proposing the terminal status
// re-stamps the closure time even when the status value is unchanged;
// resubmitting "resolved" therefore moves closed_at forward without
// producing an audit entry.
func (s *TicketService) applyPatch(ticket *domain.Ticket, patch TicketPatch) {
	if patch.Title != nil {
		ticket.Title = *patch.Title
	}
	if patch.Description != nil {
		ticket.Description = *patch.Description
	}
	if patch.IncidentArea != nil {
		ticket.IncidentArea = *patch.IncidentArea
	}
	if patch.CategoryID != nil {
		ticket.CategoryID = *patch.CategoryID
	}
	if patch.PriorityID != nil {
		ticket.PriorityID = *patch.PriorityID
	}
	if patch.StatusID != nil {
		ticket.StatusID = *patch.StatusID
		if *patch.StatusID == s.workflow.TerminalID {
			closedAt := s.now()
			ticket.ClosedAt = &closedAt
		}
	}
	if patch.SetTechnician {
		ticket.TechnicianID = patch.TechnicianID
	}
}

// notifyAssignment sends at most one assignment email when the
// technician descriptor carries a non-null new value. Lookup and
// delivery failures are logged and absorbed.
func (s *TicketService) notifyAssignment(ctx context.Context, ticket *domain.Ticket, changes []FieldChange) {
	for _, change := range changes {
		if change.Field != FieldTechnician {
			continue
		}
		if change.NewUser == nil {
			return
		}

		tech, err := s.users.GetByID(ctx, *change.NewUser)
		if err != nil {
			s.logger.Warn("assigned technician lookup failed; skipping notification",
				zap.String("ticket_id", ticket.ID),
				zap.String("technician_id", *change.NewUser),
				zap.Error(err))
			return
		}

		if err := s.sender.SendAssignment(ctx, tech.Email, tech.Name, ticket.Title, ticket.Token); err != nil {
			s.logger.Warn("assignment notification failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("technician_id", tech.ID),
				zap.Error(err))
		}

		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  ticket.CreatorID,
			Payload:  events.TicketAssignedPayload{TechnicianID: change.NewUser},
		})
		return
	}
}

// GetTicket returns the joined view plus the ticket's audit trail and
// comments.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.TicketView, []domain.TicketChange, []domain.TicketComment, error) {
	view, err := s.tickets.GetViewByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, nil, apperrors.MapError(err)
	}
	if !actor.Role.CanManageTickets() && view.CreatorID != actor.ID {
		return nil, nil, nil, apperrors.NewForbidden("access denied")
	}

	changes, err := s.changes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return view, changes, comments, nil
}

// ListTickets returns joined views, scoped to the actor's own tickets
// unless they hold a technician or admin role.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.TicketView, error) {
	repoFilter := repository.TicketFilter{
		StatusID:     filter.StatusID,
		PriorityID:   filter.PriorityID,
		CategoryID:   filter.CategoryID,
		TechnicianID: filter.TechnicianID,
		SearchTerm:   filter.SearchTerm,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if !actor.Role.CanManageTickets() {
		creatorID := actor.ID
		repoFilter.CreatorID = &creatorID
	}
	views, err := s.tickets.ListViews(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return views, nil
}

// AddComment appends a comment and its COMMENTED audit entry.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, body string) (*domain.TicketComment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.Role.CanManageTickets() && ticket.CreatorID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.TicketComment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewPersistenceFailure("comment insert", err)
	}

	entry := &domain.TicketChange{
		TicketID:    ticket.ID,
		ActorID:     actor.ID,
		Kind:        domain.ChangeKindCommented,
		Field:       "comment",
		Description: "Comment added: " + stringPreview(comment.Body, 120),
	}
	if err := s.changes.Create(ctx, entry); err != nil {
		return nil, apperrors.NewPersistenceFailure("audit append", err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

func (s *TicketService) reload(ctx context.Context, ticketID string) (*domain.TicketView, error) {
	view, err := s.tickets.GetViewByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ticket reload", err)
	}
	return view, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func changeMessage(field Field, oldLabel, newLabel string) string {
	return fmt.Sprintf("%s changed from %s to %s", fieldDisplay[field], oldLabel, newLabel)
}

func generateTicketToken() string {
	return "HD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
