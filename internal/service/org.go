package service

import (
	"context"
	"errors"
	"time"

	"github.com/mkravets/agency_crm/internal/events"
	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/rbac"
	"github.com/mkravets/agency_crm/internal/repo"
	"github.com/mkravets/agency_crm/pkg/logging"
)

// ErrForbidden means the actor is authenticated but the permission check
// denied the action; the session itself stays valid.
var ErrForbidden = errors.New("permission denied")

var ErrNotFound = errors.New("not found")

type OrgService struct {
	Repo     repo.GormRepo
	Producer *events.Producer
}

func (s *OrgService) publish(ctx context.Context, key string, event any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "key", key, "error", err)
	}
}

func (s *OrgService) CreateOrganization(ctx context.Context, ownerID uint, name, slug string) (*models.Organization, error) {
	if name == "" || slug == "" {
		return nil, ErrValidation
	}

	org := models.Organization{Name: name, Slug: slug, OwnerID: ownerID}
	if err := s.Repo.CreateOrganization(ctx, &org); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.publish(ctx, slug, map[string]any{"type": "org_created", "org_id": org.ID, "owner_id": ownerID})
	return &org, nil
}

func (s *OrgService) ListOrganizations(ctx context.Context, userID uint) ([]models.Organization, error) {
	return s.Repo.ListOrganizationsForUser(ctx, userID)
}

// requireMembership resolves the actor's role inside the organization;
// non-members cannot see the organization at all.
func (s *OrgService) requireMembership(ctx context.Context, orgID, userID uint) (rbac.Role, error) {
	m, err := s.Repo.FindMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	role, ok := rbac.ParseRole(m.Role)
	if !ok {
		return "", ErrForbidden
	}
	return role, nil
}

func (s *OrgService) ListMembers(ctx context.Context, actorID, orgID uint) ([]models.Membership, error) {
	if _, err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	return s.Repo.ListMembers(ctx, orgID)
}

// ChangeMemberRole applies the central rbac decision before mutating; the
// rule table lives in rbac.Can and nowhere else.
func (s *OrgService) ChangeMemberRole(ctx context.Context, actorID, orgID, targetID uint, newRole string) error {
	l := logging.FromContext(ctx).With("svc", "org.change_member_role", "org_id", orgID)

	role, ok := rbac.ParseRole(newRole)
	if !ok {
		return ErrValidation
	}

	actorRole, err := s.requireMembership(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !rbac.Can(actorID, targetID, actorRole, rbac.ActionEditRole) {
		l.Warn("denied", "actor_id", actorID, "target_id", targetID, "actor_role", actorRole)
		return ErrForbidden
	}

	if err := s.Repo.UpdateMemberRole(ctx, orgID, targetID, string(role)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish(ctx, "member", map[string]any{
		"type": "member_role_changed", "org_id": orgID,
		"actor_id": actorID, "user_id": targetID, "role": string(role),
	})
	return nil
}

func (s *OrgService) RemoveMember(ctx context.Context, actorID, orgID, targetID uint) error {
	l := logging.FromContext(ctx).With("svc", "org.remove_member", "org_id", orgID)

	actorRole, err := s.requireMembership(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !rbac.Can(actorID, targetID, actorRole, rbac.ActionRemoveMember) {
		l.Warn("denied", "actor_id", actorID, "target_id", targetID, "actor_role", actorRole)
		return ErrForbidden
	}

	if err := s.Repo.RemoveMember(ctx, orgID, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish(ctx, "member", map[string]any{
		"type": "member_removed", "org_id": orgID,
		"actor_id": actorID, "user_id": targetID,
	})
	return nil
}

func (s *OrgService) AddMember(ctx context.Context, actorID, orgID, userID uint, role string) error {
	parsed, ok := rbac.ParseRole(role)
	if !ok {
		return ErrValidation
	}

	actorRole, err := s.requireMembership(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	// Inviting reuses the edit-role tier: owners and admins manage the roster.
	if actorRole != rbac.RoleOwner && actorRole != rbac.RoleAdmin {
		return ErrForbidden
	}

	m := models.Membership{OrgID: orgID, UserID: userID, Role: string(parsed), JoinedAt: time.Now().UTC()}
	if err := s.Repo.AddMember(ctx, &m); err != nil {
		return err
	}

	s.publish(ctx, "member", map[string]any{
		"type": "member_added", "org_id": orgID,
		"actor_id": actorID, "user_id": userID, "role": string(parsed),
	})
	return nil
}
