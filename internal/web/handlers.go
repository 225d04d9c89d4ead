package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/famoustracker/famous-tracker-go/internal/constants"
	"github.com/famoustracker/famous-tracker-go/internal/domain"
	"github.com/famoustracker/famous-tracker-go/internal/normalize"
	"github.com/famoustracker/famous-tracker-go/internal/service"
	"github.com/famoustracker/famous-tracker-go/internal/service/cache"
	"github.com/famoustracker/famous-tracker-go/internal/service/matcher"
	"github.com/famoustracker/famous-tracker-go/pkg/errors"
)

// Matcher resolves a customer name to a reference record.
type Matcher interface {
	FindBestMatch(ctx context.Context, req domain.MatchRequest) (*domain.Match, error)
}

// CelebrityWriter covers the admin write path plus its near-duplicate
// pre-check.
type CelebrityWriter interface {
	Upsert(ctx context.Context, celeb *domain.Celebrity) (int64, error)
	FindCandidates(ctx context.Context, tokens []string, limit int) ([]*domain.Celebrity, error)
}

// MerchantStore persists per-shop alert preferences.
type MerchantStore interface {
	GetSettings(ctx context.Context, shopDomain string) (*domain.MerchantSettings, error)
	UpsertSettings(ctx context.Context, settings *domain.MerchantSettings) error
}

// EventStore records match outcomes and aggregates them for the dashboard.
type EventStore interface {
	Record(ctx context.Context, alert *domain.Alert, relevant bool) error
	Summary(ctx context.Context, shopDomain string) (*domain.DashboardSummary, error)
}

// AlertNotifier fans a relevant match out to the configured channels.
type AlertNotifier interface {
	Notify(ctx context.Context, alert *domain.Alert) error
}

// Invalidator drops cached reference data after an admin write.
type Invalidator interface {
	Invalidate(ctx context.Context, normalizedName string)
}

// Pinger reports store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	matcher        Matcher
	celebrities    CelebrityWriter
	merchants      MerchantStore
	events         EventStore
	notifier       AlertNotifier
	invalidator    Invalidator
	pinger         Pinger
	results        *cache.Store
	orderThreshold float64
	adminThreshold float64
	logger         *zap.Logger
}

type HandlerDeps struct {
	Matcher        Matcher
	Celebrities    CelebrityWriter
	Merchants      MerchantStore
	Events         EventStore
	Notifier       AlertNotifier
	Invalidator    Invalidator
	Pinger         Pinger
	Results        *cache.Store
	OrderThreshold float64
	AdminThreshold float64
	Logger         *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	orderThreshold := deps.OrderThreshold
	if orderThreshold <= 0 || orderThreshold > 1 {
		orderThreshold = constants.Matching.OrderThreshold
	}
	adminThreshold := deps.AdminThreshold
	if adminThreshold <= 0 || adminThreshold > 1 {
		adminThreshold = constants.Matching.AdminThreshold
	}

	return &Handler{
		matcher:        deps.Matcher,
		celebrities:    deps.Celebrities,
		merchants:      deps.Merchants,
		events:         deps.Events,
		notifier:       deps.Notifier,
		invalidator:    deps.Invalidator,
		pinger:         deps.Pinger,
		results:        deps.Results,
		orderThreshold: orderThreshold,
		adminThreshold: adminThreshold,
		logger:         deps.Logger,
	}
}

type matchResponse struct {
	Matched   bool              `json:"matched"`
	Relevant  *bool             `json:"relevant,omitempty"`
	Celebrity *domain.Celebrity `json:"celebrity,omitempty"`
	Score     *float64          `json:"score,omitempty"`
	Kind      string            `json:"kind,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.writeError(w, errors.NewStoreError("store ping failed", "health", err))
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OrderWebhook runs the full pipeline for an order-created event: match,
// gate, record, notify. A no-match and a filtered match are both 200s; only
// malformed payloads and store outages are errors.
func (h *Handler) OrderWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event domain.OrderEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.writeError(w, errors.NewValidationError("invalid order payload", "body", nil))
		return
	}

	shop := event.ShopDomain
	if header := r.Header.Get("X-Shopify-Shop-Domain"); header != "" {
		shop = header
	}
	if shop == "" {
		h.writeError(w, errors.NewValidationError("shop domain is required", "shop_domain", nil))
		return
	}

	match, err := h.matcher.FindBestMatch(ctx, domain.MatchRequest{
		Name:      event.CustomerName(),
		City:      event.Customer.City,
		State:     event.Customer.Province,
		Threshold: h.orderThreshold,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if match == nil {
		h.writeJSON(w, http.StatusOK, matchResponse{Matched: false})
		return
	}

	settings, err := h.merchants.GetSettings(ctx, shop)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var toggles map[string]bool
	if settings != nil {
		toggles = settings.CategoryToggles
	}
	relevant := service.IsRelevant(toggles, match.Celebrity.CategoryTags())

	alert := &domain.Alert{
		ShopDomain: shop,
		OrderID:    event.OrderID,
		Celebrity:  match.Celebrity,
		Score:      match.Score,
		Kind:       match.Kind,
	}

	// Recording and notification failures are logged, not surfaced: the
	// webhook already has its answer and Shopify retries on non-2xx.
	if err := h.events.Record(ctx, alert, relevant); err != nil {
		h.logger.Error("Failed to record match event",
			zap.String("shop", shop),
			zap.Error(err),
		)
	}
	if relevant {
		if err := h.notifier.Notify(ctx, alert); err != nil {
			h.logger.Error("Alert dispatch failed",
				zap.String("shop", shop),
				zap.Error(err),
			)
		}
	}

	h.writeJSON(w, http.StatusOK, matchResponse{
		Matched:   true,
		Relevant:  &relevant,
		Celebrity: match.Celebrity,
		Score:     &match.Score,
		Kind:      string(match.Kind),
	})
}

// AdminSearch checks a structured name against the reference set under the
// looser admin threshold.
func (h *Handler) AdminSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	name := joinNameParts(q.Get("firstName"), q.Get("middleName"), q.Get("lastName"))
	if name == "" {
		name = strings.TrimSpace(q.Get("name"))
	}
	if name == "" {
		h.writeError(w, errors.NewValidationError("a name is required", "name", nil))
		return
	}

	match, err := h.matcher.FindBestMatch(r.Context(), domain.MatchRequest{
		Name:      name,
		City:      q.Get("city"),
		State:     q.Get("state"),
		Threshold: h.adminThreshold,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if match == nil {
		h.writeJSON(w, http.StatusOK, matchResponse{Matched: false})
		return
	}

	h.writeJSON(w, http.StatusOK, matchResponse{
		Matched:   true,
		Celebrity: match.Celebrity,
		Score:     &match.Score,
		Kind:      string(match.Kind),
	})
}

type createCelebrityRequest struct {
	FullName            string          `json:"fullName"`
	Categories          []string        `json:"categories"`
	Subcategories       []string        `json:"subcategories"`
	Socials             []domain.Social `json:"socials"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	Country             string          `json:"country"`
	MaxFollowerDisplay  string          `json:"maxFollowerDisplay"`
	NotableAchievements []string        `json:"notableAchievements"`
	Notes               string          `json:"notes"`
}

type createCelebrityResponse struct {
	ID             int64    `json:"id"`
	NormalizedName string   `json:"normalizedName"`
	NearDuplicates []string `json:"nearDuplicates,omitempty"`
}

// CreateCelebrity derives the underscore-delimited storage key from the full
// name plus location hints, flags existing records a fuzzy pass considers
// close, writes the record, and drops the stale cache entries.
func (h *Handler) CreateCelebrity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createCelebrityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.NewValidationError("invalid celebrity payload", "body", nil))
		return
	}

	queryNorm := normalize.ForQuery(req.FullName)
	if queryNorm == "" {
		h.writeError(w, errors.NewValidationError("full name is required", "fullName", req.FullName))
		return
	}

	categories := make([]domain.Category, 0, len(req.Categories))
	for _, tag := range req.Categories {
		cat, ok := domain.ParseCategory(tag)
		if !ok {
			h.writeError(w, errors.NewValidationError("unknown category", "categories", tag))
			return
		}
		categories = append(categories, cat)
	}
	if len(categories) == 0 {
		h.writeError(w, errors.NewValidationError("at least one category is required", "categories", nil))
		return
	}

	celeb := &domain.Celebrity{
		FullName:       strings.TrimSpace(req.FullName),
		NormalizedName: normalize.ForStorageKey(queryNorm, req.City, req.State),
		Categories:     categories,
		Subcategories:  req.Subcategories,
		Socials:        req.Socials,
		Location: domain.Location{
			City:    req.City,
			State:   req.State,
			Country: req.Country,
		},
		NotableAchievements: req.NotableAchievements,
		Notes:               req.Notes,
	}

	if req.MaxFollowerDisplay != "" {
		count, err := domain.ParseFollowerDisplay(req.MaxFollowerDisplay)
		if err != nil {
			h.writeError(w, errors.NewValidationError("invalid follower display", "maxFollowerDisplay", req.MaxFollowerDisplay))
			return
		}
		celeb.MaxFollowerCount = count
		celeb.MaxFollowerDisplay = req.MaxFollowerDisplay
	}

	nearDuplicates, err := h.findNearDuplicates(ctx, queryNorm, celeb.NormalizedName)
	if err != nil {
		h.writeError(w, err)
		return
	}

	id, err := h.celebrities.Upsert(ctx, celeb)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.invalidator.Invalidate(ctx, celeb.NormalizedName)

	h.logger.Info("Celebrity record written",
		zap.Int64("id", id),
		zap.String("normalized_name", celeb.NormalizedName),
		zap.Int("near_duplicates", len(nearDuplicates)),
	)

	h.writeJSON(w, http.StatusCreated, createCelebrityResponse{
		ID:             id,
		NormalizedName: celeb.NormalizedName,
		NearDuplicates: nearDuplicates,
	})
}

// findNearDuplicates runs the token pre-filter and a fuzzy pass over the
// survivors, excluding the record's own storage key so an update is never its
// own duplicate.
func (h *Handler) findNearDuplicates(ctx context.Context, queryNorm, selfKey string) ([]string, error) {
	candidates, err := h.celebrities.FindCandidates(ctx, strings.Fields(queryNorm), constants.Matching.CandidateLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	keys := []func(*domain.Celebrity) string{
		func(c *domain.Celebrity) string { return c.FullName },
		func(c *domain.Celebrity) string { return strings.ReplaceAll(c.NormalizedName, "_", " ") },
	}

	var names []string
	for _, result := range matcher.Search(queryNorm, candidates, keys, h.adminThreshold) {
		if result.Item.NormalizedName == selfKey {
			continue
		}
		names = append(names, result.Item.FullName)
	}
	return names, nil
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		h.writeError(w, errors.NewValidationError("shop is required", "shop", nil))
		return
	}

	settings, err := h.merchants.GetSettings(r.Context(), shop)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if settings == nil {
		settings = &domain.MerchantSettings{
			ShopDomain:      shop,
			CategoryToggles: domain.CategoryToggles{},
		}
	}

	h.writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.MerchantSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.writeError(w, errors.NewValidationError("invalid settings payload", "body", nil))
		return
	}
	if strings.TrimSpace(settings.ShopDomain) == "" {
		h.writeError(w, errors.NewValidationError("shop domain is required", "shopDomain", nil))
		return
	}
	settings.CategoryToggles = settings.CategoryToggles.Normalized()

	if err := h.merchants.UpsertSettings(r.Context(), &settings); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settings)
}

// DashboardSummary serves the per-shop aggregate, cached for the dashboard
// TTL so a busy admin page does not hammer the store.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		h.writeError(w, errors.NewValidationError("shop is required", "shop", nil))
		return
	}

	key := constants.CacheKey.DashboardPrefix + shop
	if value, ok := h.results.Get(key); ok {
		if summary, ok := value.(*domain.DashboardSummary); ok {
			h.writeJSON(w, http.StatusOK, summary)
			return
		}
	}

	summary, err := h.events.Summary(r.Context(), shop)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.results.Set(key, summary, constants.CacheTTL.DashboardSummary)
	h.writeJSON(w, http.StatusOK, summary)
}

func joinNameParts(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, " ")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.CodeTracker

	var (
		se *errors.StoreError
		ve *errors.ValidationError
		te *errors.TrackerError
	)
	switch {
	case stderrors.As(err, &se):
		status, code = se.StatusCode, se.Code
	case stderrors.As(err, &ve):
		status, code = ve.StatusCode, ve.Code
	case stderrors.As(err, &te):
		if te.StatusCode > 0 {
			status = te.StatusCode
		}
		code = te.Code
	}

	if status >= 500 {
		h.logger.Error("Request failed", zap.String("code", code), zap.Error(err))
	} else {
		h.logger.Warn("Request rejected", zap.String("code", code), zap.Error(err))
	}

	h.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}
