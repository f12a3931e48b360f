package service

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/mkravets/agency_crm/internal/events"
	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/repo"
	"github.com/mkravets/agency_crm/internal/service/search"
	"github.com/mkravets/agency_crm/pkg/logging"
)

// RecordService owns the per-organization business records. Every call
// requires the actor to be a member of the organization; mutations emit a
// Kafka event and mirror searchable records into Elasticsearch.
type RecordService struct {
	Repo     repo.GormRepo
	Producer *events.Producer
	ES       *elasticsearch.Client
}

func (s *RecordService) publish(ctx context.Context, key string, event any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "key", key, "error", err)
	}
}

func (s *RecordService) mirror(ctx context.Context, doc search.Doc) {
	if s.ES == nil {
		return
	}
	if err := search.IndexDoc(ctx, s.ES, doc); err != nil {
		logging.FromContext(ctx).Warn("search_mirror_failed", "kind", doc.Kind, "ref_id", doc.RefID, "error", err)
	}
}

func (s *RecordService) unmirror(ctx context.Context, kind string, refID uint) {
	if s.ES == nil {
		return
	}
	if err := search.DeleteDoc(ctx, s.ES, kind, refID); err != nil {
		logging.FromContext(ctx).Warn("search_unmirror_failed", "kind", kind, "ref_id", refID, "error", err)
	}
}

func (s *RecordService) requireMembership(ctx context.Context, orgID, userID uint) error {
	if _, err := s.Repo.FindMembership(ctx, orgID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

func (s *RecordService) CreateClient(ctx context.Context, actorID uint, client *models.Client) error {
	if client.Name == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, client.OrgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.CreateClient(ctx, client); err != nil {
		return err
	}
	s.publish(ctx, "client", map[string]any{"type": "client_created", "org_id": client.OrgID, "client_id": client.ID})
	s.mirror(ctx, search.Doc{Kind: "client", OrgID: client.OrgID, RefID: client.ID, Name: client.Name, Notes: client.Notes})
	return nil
}

func (s *RecordService) ListClients(ctx context.Context, actorID, orgID uint) ([]models.Client, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	return s.Repo.ListClients(ctx, orgID)
}

func (s *RecordService) GetClient(ctx context.Context, actorID, orgID, id uint) (*models.Client, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	c, err := s.Repo.FindClient(ctx, orgID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *RecordService) UpdateClient(ctx context.Context, actorID uint, client *models.Client) error {
	if client.Name == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, client.OrgID, actorID); err != nil {
		return err
	}
	if _, err := s.Repo.FindClient(ctx, client.OrgID, client.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Repo.SaveClient(ctx, client); err != nil {
		return err
	}
	s.publish(ctx, "client", map[string]any{"type": "client_updated", "org_id": client.OrgID, "client_id": client.ID})
	s.mirror(ctx, search.Doc{Kind: "client", OrgID: client.OrgID, RefID: client.ID, Name: client.Name, Notes: client.Notes})
	return nil
}

func (s *RecordService) DeleteClient(ctx context.Context, actorID, orgID, id uint) error {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.DeleteClient(ctx, orgID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, "client", map[string]any{"type": "client_deleted", "org_id": orgID, "client_id": id})
	s.unmirror(ctx, "client", id)
	return nil
}

func (s *RecordService) CreateContract(ctx context.Context, actorID uint, contract *models.Contract) error {
	if contract.Title == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, contract.OrgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.CreateContract(ctx, contract); err != nil {
		return err
	}
	s.publish(ctx, "contract", map[string]any{"type": "contract_created", "org_id": contract.OrgID, "contract_id": contract.ID})
	return nil
}

func (s *RecordService) ListContracts(ctx context.Context, actorID, orgID uint) ([]models.Contract, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	return s.Repo.ListContracts(ctx, orgID)
}

func (s *RecordService) GetContract(ctx context.Context, actorID, orgID, id uint) (*models.Contract, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	c, err := s.Repo.FindContract(ctx, orgID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *RecordService) UpdateContract(ctx context.Context, actorID uint, contract *models.Contract) error {
	if contract.Title == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, contract.OrgID, actorID); err != nil {
		return err
	}
	if _, err := s.Repo.FindContract(ctx, contract.OrgID, contract.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Repo.SaveContract(ctx, contract); err != nil {
		return err
	}
	s.publish(ctx, "contract", map[string]any{"type": "contract_updated", "org_id": contract.OrgID, "contract_id": contract.ID})
	return nil
}

func (s *RecordService) DeleteContract(ctx context.Context, actorID, orgID, id uint) error {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.DeleteContract(ctx, orgID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, "contract", map[string]any{"type": "contract_deleted", "org_id": orgID, "contract_id": id})
	return nil
}

func (s *RecordService) CreateCampaign(ctx context.Context, actorID uint, campaign *models.Campaign) error {
	if campaign.Name == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, campaign.OrgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.CreateCampaign(ctx, campaign); err != nil {
		return err
	}
	s.publish(ctx, "campaign", map[string]any{"type": "campaign_created", "org_id": campaign.OrgID, "campaign_id": campaign.ID})
	s.mirror(ctx, search.Doc{Kind: "campaign", OrgID: campaign.OrgID, RefID: campaign.ID, Name: campaign.Name, Notes: campaign.Channel})
	return nil
}

func (s *RecordService) ListCampaigns(ctx context.Context, actorID, orgID uint) ([]models.Campaign, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	return s.Repo.ListCampaigns(ctx, orgID)
}

func (s *RecordService) GetCampaign(ctx context.Context, actorID, orgID, id uint) (*models.Campaign, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return nil, err
	}
	c, err := s.Repo.FindCampaign(ctx, orgID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *RecordService) UpdateCampaign(ctx context.Context, actorID uint, campaign *models.Campaign) error {
	if campaign.Name == "" {
		return ErrValidation
	}
	if err := s.requireMembership(ctx, campaign.OrgID, actorID); err != nil {
		return err
	}
	if _, err := s.Repo.FindCampaign(ctx, campaign.OrgID, campaign.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Repo.SaveCampaign(ctx, campaign); err != nil {
		return err
	}
	s.publish(ctx, "campaign", map[string]any{"type": "campaign_updated", "org_id": campaign.OrgID, "campaign_id": campaign.ID})
	s.mirror(ctx, search.Doc{Kind: "campaign", OrgID: campaign.OrgID, RefID: campaign.ID, Name: campaign.Name, Notes: campaign.Channel})
	return nil
}

func (s *RecordService) DeleteCampaign(ctx context.Context, actorID, orgID, id uint) error {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return err
	}
	if err := s.Repo.DeleteCampaign(ctx, orgID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, "campaign", map[string]any{"type": "campaign_deleted", "org_id": orgID, "campaign_id": id})
	s.unmirror(ctx, "campaign", id)
	return nil
}

// SearchRecords queries the Elasticsearch mirror for one organization.
func (s *RecordService) SearchRecords(ctx context.Context, actorID, orgID uint, query string, from, size int) (int64, []search.Doc, error) {
	if err := s.requireMembership(ctx, orgID, actorID); err != nil {
		return 0, nil, err
	}
	if s.ES == nil {
		return 0, nil, errors.New("search is not configured")
	}
	return search.Search(ctx, s.ES, orgID, query, from, size)
}
