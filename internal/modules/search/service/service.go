package service

import (
	"encoding/json"
	"html"
	"strings"

	"folklorika.bg/backend/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	indexAssociations = "associations"
	indexEvents       = "events"
)

// SearchService maintains the public search indexes. Only approved rows ever
// reach an index: documents are added on approval and removed on rejection.
// All operations are best-effort; a broken search cluster must never fail a
// moderation action, so callers log errors instead of propagating them.
type SearchService interface {
	IndexAssociation(association *entity.Association) error
	IndexEvent(event *entity.Event) error
	DeleteAssociation(id string) error
	DeleteEvent(id string) error

	Search(query string) (*Results, error)
}

// Results groups hits from both indexes for the public search endpoint.
type Results struct {
	Associations []map[string]any `json:"associations"`
	Events       []map[string]any `json:"events"`
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewSearchService wires the Meilisearch client. A nil client disables search,
// which keeps local setups and tests independent of a running cluster.
func NewSearchService(client meilisearch.ServiceManager, logger *zap.Logger) SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	assocSortable := []string{"name", "city"}
	if _, err := s.client.Index(indexAssociations).UpdateSortableAttributes(&assocSortable); err != nil {
		s.logger.Warn("failed to update associations sortable attributes", zap.Error(err))
	}

	eventFilterable := []string{"type", "city"}
	filterableInterface := make([]any, len(eventFilterable))
	for i, v := range eventFilterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(indexEvents).UpdateFilterableAttributes(&filterableInterface); err != nil {
		s.logger.Warn("failed to update events filterable attributes", zap.Error(err))
	}

	eventSortable := []string{"date"}
	if _, err := s.client.Index(indexEvents).UpdateSortableAttributes(&eventSortable); err != nil {
		s.logger.Warn("failed to update events sortable attributes", zap.Error(err))
	}

	s.logger.Info("search indexes initialized")
}

type associationDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	City        string `json:"city"`
	Region      string `json:"region"`
}

type eventDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Description string `json:"description"`
	City        string `json:"city"`
	Date        int64  `json:"date"`
}

// cleanForIndex strips markup from user-authored descriptions so search hits
// never echo raw HTML.
func (s *searchService) cleanForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexAssociation(association *entity.Association) error {
	if s.client == nil {
		return nil
	}

	doc := associationDoc{
		ID:          association.ID.String(),
		Name:        association.Name,
		Slug:        association.Slug,
		Description: s.cleanForIndex(deref(association.Description)),
		City:        association.City,
		Region:      deref(association.Region),
	}

	task, err := s.client.Index(indexAssociations).AddDocuments([]associationDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.logger.Debug("indexed association",
		zap.String("id", doc.ID), zap.Int64("task", task.TaskUID))
	return nil
}

func (s *searchService) IndexEvent(event *entity.Event) error {
	if s.client == nil {
		return nil
	}

	doc := eventDoc{
		ID:          event.ID.String(),
		Title:       event.Title,
		Slug:        event.Slug,
		Type:        event.Type,
		Description: s.cleanForIndex(deref(event.Description)),
		City:        event.City,
		Date:        event.Date.Unix(),
	}

	task, err := s.client.Index(indexEvents).AddDocuments([]eventDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.logger.Debug("indexed event",
		zap.String("id", doc.ID), zap.Int64("task", task.TaskUID))
	return nil
}

func (s *searchService) DeleteAssociation(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(indexAssociations).DeleteDocument(id)
	return err
}

func (s *searchService) DeleteEvent(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(indexEvents).DeleteDocument(id)
	return err
}

func (s *searchService) Search(query string) (*Results, error) {
	results := &Results{
		Associations: []map[string]any{},
		Events:       []map[string]any{},
	}
	if s.client == nil || query == "" {
		return results, nil
	}

	assocHits, err := s.searchIndex(indexAssociations, query)
	if err != nil {
		return nil, err
	}
	eventHits, err := s.searchIndex(indexEvents, query)
	if err != nil {
		return nil, err
	}

	results.Associations = assocHits
	results.Events = eventHits
	return results, nil
}

func (s *searchService) searchIndex(index, query string) ([]map[string]any, error) {
	raw, err := s.client.Index(index).SearchRaw(query, &meilisearch.SearchRequest{Limit: 10})
	if err != nil {
		return nil, err
	}

	var res struct {
		Hits []map[string]any `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, err
	}
	if res.Hits == nil {
		res.Hits = []map[string]any{}
	}
	return res.Hits, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
