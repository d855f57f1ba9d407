package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

const (
	defaultTimeout = 20 * time.Second

	contactsBase = "/crm/v3/objects/contacts"
	dealsBase    = "/crm/v3/objects/deals"

	// contactToDealAssociation is HubSpot's built-in deal↔contact type.
	contactToDealAssociation = 3
)

// HubSpotClient talks to the HubSpot CRM v3 REST API.
type HubSpotClient struct {
	baseURL     string
	token       string
	pipelineID  string
	dealStageID string
	httpClient  *http.Client
	logger      *logging.Logger
}

// HubSpotOption customizes the client.
type HubSpotOption func(*HubSpotClient)

// WithBaseURL overrides the API host (used in tests).
func WithBaseURL(url string) HubSpotOption {
	return func(c *HubSpotClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithPipeline sets the pipeline and stage applied to new deals.
func WithPipeline(pipelineID, dealStageID string) HubSpotOption {
	return func(c *HubSpotClient) {
		c.pipelineID = pipelineID
		c.dealStageID = dealStageID
	}
}

// NewHubSpotClient creates a CRM client with the given private app token.
func NewHubSpotClient(token string, logger *logging.Logger, opts ...HubSpotOption) *HubSpotClient {
	if logger == nil {
		logger = logging.Default()
	}
	c := &HubSpotClient{
		baseURL:    "https://api.hubapi.com",
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type contactProperties struct {
	Email             string `json:"email,omitempty"`
	FirstName         string `json:"firstname,omitempty"`
	LastName          string `json:"lastname,omitempty"`
	Phone             string `json:"phone,omitempty"`
	LeadStatus        string `json:"hs_lead_status,omitempty"`
	LifecycleStage    string `json:"lifecyclestage,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
	Source            string `json:"source,omitempty"`
}

// UpsertContact searches by email first and patches the match; otherwise it
// creates a new contact. Returns the HubSpot contact id.
func (c *HubSpotClient) UpsertContact(ctx context.Context, in ContactInput) (string, error) {
	first, last := splitName(in.Name)
	props := contactProperties{
		Email:             in.Email,
		FirstName:         first,
		LastName:          last,
		Phone:             in.Phone,
		LeadStatus:        "NEW",
		LifecycleStage:    "lead",
		PreferredLanguage: preferredLanguage(in.Language),
		Source:            "WhatsApp Bot",
	}

	if in.Email != "" {
		if id, err := c.findContactByEmail(ctx, in.Email); err != nil {
			c.logger.Warn("crm: contact search failed", "error", err)
		} else if id != "" {
			if err := c.patchContact(ctx, id, props); err != nil {
				return "", err
			}
			return id, nil
		}
	}

	var created struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, contactsBase, map[string]any{"properties": props}, &created)
	if err != nil {
		return "", fmt.Errorf("crm: create contact: %w", err)
	}
	c.logger.Info("crm: contact created", "contact_id", created.ID)
	return created.ID, nil
}

func (c *HubSpotClient) findContactByEmail(ctx context.Context, email string) (string, error) {
	body := map[string]any{
		"filterGroups": []map[string]any{{
			"filters": []map[string]any{{
				"propertyName": "email",
				"operator":     "EQ",
				"value":        email,
			}},
		}},
		"properties": []string{"email"},
	}
	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, contactsBase+"/search", body, &result); err != nil {
		return "", fmt.Errorf("crm: search contact: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

func (c *HubSpotClient) patchContact(ctx context.Context, id string, props contactProperties) error {
	err := c.do(ctx, http.MethodPatch, contactsBase+"/"+id, map[string]any{"properties": props}, nil)
	if err != nil {
		return fmt.Errorf("crm: update contact: %w", err)
	}
	return nil
}

// CreateDeal creates a deal and associates it with the contact. The
// association is best-effort: a deal without the link still reaches the
// pipeline.
func (c *HubSpotClient) CreateDeal(ctx context.Context, in DealInput) (string, error) {
	props := map[string]string{
		"dealname":    in.Title,
		"description": in.Description,
	}
	if c.pipelineID != "" {
		props["pipeline"] = c.pipelineID
	}
	if c.dealStageID != "" {
		props["dealstage"] = c.dealStageID
	}
	if in.OwnerRef != "" {
		props["hubspot_owner_id"] = in.OwnerRef
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, dealsBase, map[string]any{"properties": props}, &created); err != nil {
		return "", fmt.Errorf("crm: create deal: %w", err)
	}

	if in.ContactRef != "" {
		assocPath := fmt.Sprintf("/crm/v4/objects/deals/%s/associations/contacts/%s", created.ID, in.ContactRef)
		assocBody := []map[string]any{{
			"associationCategory": "HUBSPOT_DEFINED",
			"associationTypeId":   contactToDealAssociation,
		}}
		if err := c.do(ctx, http.MethodPut, assocPath, assocBody, nil); err != nil {
			c.logger.Warn("crm: deal association failed", "deal_id", created.ID, "error", err)
		}
	}

	c.logger.Info("crm: deal created", "deal_id", created.ID)
	return created.ID, nil
}

func (c *HubSpotClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func preferredLanguage(lang string) string {
	if strings.HasPrefix(strings.ToUpper(lang), "ES") {
		return "es"
	}
	return "en"
}

var _ Adapter = (*HubSpotClient)(nil)
