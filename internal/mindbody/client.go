package mindbody

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/models"
	"github.com/home-wellness/spa-booking-api/pkg/config"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

// ResponseCache stores raw upstream response bodies keyed by endpoint and
// query. A miss is reported as appErrors.ErrCacheMiss.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RequestObserver records upstream request timing and outcome.
type RequestObserver interface {
	ObserveUpstreamRequest(endpoint string, success bool, duration time.Duration)
}

// Client is the typed facade over the Mindbody public API. All upstream
// field-variant handling happens behind it; callers only ever see
// canonical records.
type Client struct {
	baseURL string
	apiKey  string
	siteID  string

	httpClient *http.Client
	cache      ResponseCache
	cacheTTL   time.Duration
	metrics    RequestObserver
	logger     *zap.Logger
}

// Params groups Client dependencies.
type Params struct {
	Config     config.MindbodyConfig
	Logger     *zap.Logger
	Cache      ResponseCache
	Metrics    RequestObserver
	HTTPClient *http.Client
}

// NewClient creates the upstream facade.
func NewClient(p Params) *Client {
	httpClient := p.HTTPClient
	if httpClient == nil {
		timeout := p.Config.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cacheTTL := p.Config.CacheTTL
	if !p.Config.CacheEnabled {
		cacheTTL = 0
	}
	return &Client{
		baseURL:    p.Config.BaseURL,
		apiKey:     p.Config.APIKey,
		siteID:     p.Config.SiteID,
		httpClient: httpClient,
		cache:      p.Cache,
		cacheTTL:   cacheTTL,
		metrics:    p.Metrics,
		logger:     p.Logger,
	}
}

// IsConfigured reports whether upstream credentials are present. Every call
// checks this first so that an unconfigured deployment degrades to the
// static catalog instead of hammering the API with 401s.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.siteID != ""
}

// GetStaff fetches up to limit staff members. The envelope key varies by
// API version (StaffMembers or Staff); both are accepted.
func (c *Client) GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}
	var env struct {
		StaffMembers []rawStaff `json:"StaffMembers"`
		Staff        []rawStaff `json:"Staff"`
	}
	if err := c.get(ctx, "/staff/staff", query, &env); err != nil {
		return nil, err
	}
	raws := env.StaffMembers
	if len(raws) == 0 {
		raws = env.Staff
	}
	records := make([]models.StaffRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, normalizeStaff(raw))
	}
	return records, nil
}

// GetServices fetches the priced service catalog.
func (c *Client) GetServices(ctx context.Context, limit int) ([]models.ServiceRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}
	var env struct {
		Services []rawService `json:"Services"`
	}
	if err := c.get(ctx, "/sale/services", query, &env); err != nil {
		return nil, err
	}
	records := make([]models.ServiceRecord, 0, len(env.Services))
	for _, raw := range env.Services {
		records = append(records, normalizeService(raw))
	}
	return records, nil
}

// GetSessionTypes fetches session types, the scheduling-side counterpart of
// services.
func (c *Client) GetSessionTypes(ctx context.Context, limit int) ([]models.SessionTypeRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}
	var env struct {
		SessionTypes []rawSessionType `json:"SessionTypes"`
	}
	if err := c.get(ctx, "/site/sessiontypes", query, &env); err != nil {
		return nil, err
	}
	records := make([]models.SessionTypeRecord, 0, len(env.SessionTypes))
	for _, raw := range env.SessionTypes {
		records = append(records, normalizeSessionType(raw))
	}
	return records, nil
}

// GetLocations fetches site locations.
func (c *Client) GetLocations(ctx context.Context) ([]models.LocationRecord, error) {
	var env struct {
		Locations []rawLocation `json:"Locations"`
	}
	if err := c.get(ctx, "/site/locations", nil, &env); err != nil {
		return nil, err
	}
	records := make([]models.LocationRecord, 0, len(env.Locations))
	for _, raw := range env.Locations {
		records = append(records, normalizeLocation(raw))
	}
	return records, nil
}

// GetBookableItems fetches confirmed open slots for the given session types
// and date window.
func (c *Client) GetBookableItems(ctx context.Context, q BookableItemsQuery) ([]BookableItem, error) {
	query := url.Values{}
	for _, id := range q.SessionTypeIDs {
		query.Add("SessionTypeIds", id)
	}
	for _, id := range q.StaffIDs {
		query.Add("StaffIds", id)
	}
	if q.StartDate != "" {
		query.Set("StartDate", q.StartDate)
	}
	if q.EndDate != "" {
		query.Set("EndDate", q.EndDate)
	}
	if q.Limit > 0 {
		query.Set("Limit", strconv.Itoa(q.Limit))
	}
	var env struct {
		Availabilities []rawBookableItem `json:"Availabilities"`
		BookableItems  []rawBookableItem `json:"BookableItems"`
	}
	if err := c.get(ctx, "/appointment/bookableitems", query, &env); err != nil {
		return nil, err
	}
	raws := env.Availabilities
	if len(raws) == 0 {
		raws = env.BookableItems
	}
	items := make([]BookableItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, normalizeBookableItem(raw))
	}
	return items, nil
}

// GetActiveSessionTimes fetches schedule-template slots. These are times a
// session could run, not confirmed openings.
func (c *Client) GetActiveSessionTimes(ctx context.Context, q ActiveSessionTimesQuery) ([]ActiveSessionTime, error) {
	query := url.Values{}
	for _, id := range q.SessionTypeIDs {
		query.Add("SessionTypeIds", id)
	}
	if q.ScheduleType != "" {
		query.Set("ScheduleType", q.ScheduleType)
	}
	if q.StartTime != "" {
		query.Set("StartTime", q.StartTime)
	}
	if q.EndTime != "" {
		query.Set("EndTime", q.EndTime)
	}
	if q.Limit > 0 {
		query.Set("Limit", strconv.Itoa(q.Limit))
	}
	var env struct {
		ActiveSessionTimes []rawActiveSessionTime `json:"ActiveSessionTimes"`
	}
	if err := c.get(ctx, "/appointment/activesessiontimes", query, &env); err != nil {
		return nil, err
	}
	slots := make([]ActiveSessionTime, 0, len(env.ActiveSessionTimes))
	for _, raw := range env.ActiveSessionTimes {
		slots = append(slots, normalizeActiveSessionTime(raw))
	}
	return slots, nil
}

// GetStaffAppointments fetches booked appointments in the given window.
func (c *Client) GetStaffAppointments(ctx context.Context, q StaffAppointmentsQuery) ([]models.AppointmentRecord, error) {
	query := url.Values{}
	if q.StartDate != "" {
		query.Set("StartDate", q.StartDate)
	}
	if q.EndDate != "" {
		query.Set("EndDate", q.EndDate)
	}
	if q.Limit > 0 {
		query.Set("Limit", strconv.Itoa(q.Limit))
	}
	var env struct {
		Appointments []rawAppointment `json:"Appointments"`
	}
	if err := c.get(ctx, "/appointment/staffappointments", query, &env); err != nil {
		return nil, err
	}
	records := make([]models.AppointmentRecord, 0, len(env.Appointments))
	for _, raw := range env.Appointments {
		records = append(records, normalizeAppointment(raw))
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if !c.IsConfigured() {
		return appErrors.ErrNotConfigured
	}

	cacheKey := cacheKey(endpoint, query)
	if c.useCache() {
		var body string
		if err := c.cache.Get(ctx, cacheKey, &body); err == nil {
			if err := json.Unmarshal([]byte(body), out); err == nil {
				return nil
			}
			// Corrupt entry, fall through to a live fetch.
		}
	}

	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upstream request")
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("SiteId", c.siteID)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, false, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status,
			fmt.Sprintf("request to %s failed", endpoint))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, false, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status,
			fmt.Sprintf("reading response from %s failed", endpoint))
	}

	if resp.StatusCode != http.StatusOK {
		c.observe(endpoint, false, time.Since(start))
		c.logger.Warn("upstream returned non-200",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable,
			fmt.Sprintf("upstream returned status %d for %s", resp.StatusCode, endpoint))
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.observe(endpoint, false, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status,
			fmt.Sprintf("decoding response from %s failed", endpoint))
	}
	c.observe(endpoint, true, time.Since(start))

	if c.useCache() {
		if err := c.cache.Set(ctx, cacheKey, string(body), c.cacheTTL); err != nil {
			c.logger.Warn("failed to cache upstream response",
				zap.String("endpoint", endpoint),
				zap.Error(err))
		}
	}
	return nil
}

func (c *Client) useCache() bool {
	return c.cache != nil && c.cacheTTL > 0
}

func (c *Client) observe(endpoint string, success bool, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamRequest(endpoint, success, duration)
	}
}

func cacheKey(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return "mindbody:" + endpoint
	}
	return "mindbody:" + endpoint + "?" + query.Encode()
}
