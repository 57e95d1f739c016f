// Package notify turns domain events into queued email jobs.
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/queue"
)

// Enqueuer accepts email jobs.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Notifier queues member emails. A nil *Notifier sends nothing. Enqueue
// failures are logged and never fail the calling request.
type Notifier struct {
	q       Enqueuer
	baseURL string
	logger  *zap.Logger
}

// New creates a notifier. baseURL is the public SPA address used in links.
func New(q Enqueuer, baseURL string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{q: q, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// TeamRegistered emails every member of a freshly registered team.
func (n *Notifier) TeamRegistered(ctx context.Context, team *models.TeamDetail) {
	if n == nil {
		return
	}
	subject := fmt.Sprintf("You're registered for %s", team.Hackathon.Title)
	for _, m := range team.Members {
		body := fmt.Sprintf("Hi %s,\n\n%s registered team %q for %s with the idea %q.\n\nView your team: %s/hackathons/%s\n",
			m.Name, team.Leader.Name, team.Name, team.Hackathon.Title, team.Idea.Title, n.baseURL, team.Hackathon.ID)
		n.enqueue(ctx, queue.EmailPayload{
			EmailType:      queue.EmailTeamRegistered,
			OrganizationID: team.Organization.ID,
			RecipientEmail: m.Email,
			RecipientName:  m.Name,
			Subject:        subject,
			BodyText:       body,
		})
	}
}

// TeamWithdrawn tells every former member that the team was withdrawn.
func (n *Notifier) TeamWithdrawn(ctx context.Context, team *models.TeamDetail) {
	if n == nil {
		return
	}
	subject := fmt.Sprintf("Team %s withdrawn from %s", team.Name, team.Hackathon.Title)
	for _, m := range team.Members {
		body := fmt.Sprintf("Hi %s,\n\nTeam %q is no longer registered for %s. You can join or register another team.\n",
			m.Name, team.Name, team.Hackathon.Title)
		n.enqueue(ctx, queue.EmailPayload{
			EmailType:      queue.EmailTeamWithdrawn,
			OrganizationID: team.Organization.ID,
			RecipientEmail: m.Email,
			RecipientName:  m.Name,
			Subject:        subject,
			BodyText:       body,
		})
	}
}

// RoleChanged tells a user their role was changed.
func (n *Notifier) RoleChanged(ctx context.Context, u *models.User) {
	if n == nil {
		return
	}
	n.enqueue(ctx, queue.EmailPayload{
		EmailType:      queue.EmailRoleChanged,
		OrganizationID: u.OrganizationID,
		RecipientEmail: u.Email,
		RecipientName:  u.Name,
		Subject:        "Your portal role changed",
		BodyText:       fmt.Sprintf("Hi %s,\n\nYour role is now %s.\n\n%s\n", u.Name, u.Role, n.baseURL),
	})
}

func (n *Notifier) enqueue(ctx context.Context, p queue.EmailPayload) {
	if n.q == nil || p.RecipientEmail == "" {
		return
	}
	if err := n.q.EnqueueEmail(ctx, p); err != nil {
		n.logger.Warn("enqueue email failed", zap.String("email_type", p.EmailType), zap.String("to", p.RecipientEmail), zap.Error(err))
	}
}
