package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/mindbody"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

type upstreamCatalogClient interface {
	IsConfigured() bool
	GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error)
	GetServices(ctx context.Context, limit int) ([]models.ServiceRecord, error)
	GetSessionTypes(ctx context.Context, limit int) ([]models.SessionTypeRecord, error)
	GetBookableItems(ctx context.Context, q mindbody.BookableItemsQuery) ([]mindbody.BookableItem, error)
	GetActiveSessionTimes(ctx context.Context, q mindbody.ActiveSessionTimesQuery) ([]mindbody.ActiveSessionTime, error)
}

// AvailabilityServiceConfig tunes the aggregation pipeline.
type AvailabilityServiceConfig struct {
	CacheTTL         time.Duration
	SessionTypeLimit int
	ServiceLimit     int
	StaffLimit       int
	// SessionTypeBatch caps how many session type ids go into one
	// bookable-items query; upstream rejects oversized id lists.
	SessionTypeBatch int
	// TimeWindowHours is the tolerance around an hour filter.
	TimeWindowHours int
}

// AvailabilityService aggregates the upstream scheduling endpoints into one
// normalized availability feed. Data sources are tried in order of
// trustworthiness: confirmed bookable slots, then schedule templates, then
// the priced catalog with no times at all. A tier is only consulted when
// every earlier tier produced nothing, and a tier failure is logged and
// swallowed rather than failing the request.
type AvailabilityService struct {
	client     upstreamCatalogClient
	cache      *CacheService
	metrics    *MetricsService
	classifier *Classifier
	resolver   *TherapistResolver
	logger     *zap.Logger
	now        func() time.Time
	cfg        AvailabilityServiceConfig
}

// AvailabilityServiceParams groups constructor dependencies.
type AvailabilityServiceParams struct {
	Client     upstreamCatalogClient
	Cache      *CacheService
	Metrics    *MetricsService
	Classifier *Classifier
	Resolver   *TherapistResolver
	Logger     *zap.Logger
	Config     AvailabilityServiceConfig
}

// NewAvailabilityService constructs an AvailabilityService with sane defaults.
func NewAvailabilityService(params AvailabilityServiceParams) *AvailabilityService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.SessionTypeLimit <= 0 {
		cfg.SessionTypeLimit = 500
	}
	if cfg.ServiceLimit <= 0 {
		cfg.ServiceLimit = 1000
	}
	if cfg.StaffLimit <= 0 {
		cfg.StaffLimit = 500
	}
	if cfg.SessionTypeBatch <= 0 {
		cfg.SessionTypeBatch = 50
	}
	if cfg.TimeWindowHours <= 0 {
		cfg.TimeWindowHours = 2
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = NewClassifier()
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewTherapistResolver()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		client:     params.Client,
		cache:      params.Cache,
		metrics:    params.Metrics,
		classifier: classifier,
		resolver:   resolver,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// GetAvailability returns the availability feed for the requested filters
// and indicates cache utilisation.
func (s *AvailabilityService) GetAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	startDate := strings.TrimSpace(req.Date)
	if startDate == "" {
		startDate = s.now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	endDate := strings.TrimSpace(req.EndDate)
	if endDate == "" {
		endDate = startDate
	} else if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted YYYY-MM-DD")
	}
	if endDate < startDate {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "end_date precedes date")
	}

	filterHour := -1
	if raw := strings.TrimSpace(req.Time); raw != "" {
		hour, ok := parseHour(raw)
		if !ok {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "time filter is not a recognisable time of day")
		}
		filterHour = hour
	}

	cacheKey := fmt.Sprintf("availability:%s:%s:%s:%s:%s",
		startDate, endDate, strings.ToLower(strings.Join(req.Categories, ",")), strings.ToLower(req.Therapist), strings.ToLower(req.Time))
	if s.cache != nil {
		var cached dto.AvailabilityResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, false, err
	}
	resolvedStaff := s.resolver.ResolveStaff(req.Therapist, catalog.staff)

	slots, source := s.collectSlots(ctx, startDate, endDate, req, filterHour, catalog, resolvedStaff)
	resp := s.buildResponse(slots, source)
	if s.metrics != nil {
		s.metrics.RecordTierUsage(source)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return resp, false, nil
}

type upstreamCatalog struct {
	sessionTypes []models.SessionTypeRecord
	services     []models.ServiceRecord
	staff        []models.StaffRecord
}

// loadCatalog fetches the three discovery datasets concurrently. A partial
// failure degrades the affected tiers; losing all three fails the request.
func (s *AvailabilityService) loadCatalog(ctx context.Context) (*upstreamCatalog, error) {
	var (
		wg       sync.WaitGroup
		catalog  upstreamCatalog
		stErr    error
		svcErr   error
		staffErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		catalog.sessionTypes, stErr = s.client.GetSessionTypes(ctx, s.cfg.SessionTypeLimit)
	}()
	go func() {
		defer wg.Done()
		catalog.services, svcErr = s.client.GetServices(ctx, s.cfg.ServiceLimit)
	}()
	go func() {
		defer wg.Done()
		catalog.staff, staffErr = s.client.GetStaff(ctx, s.cfg.StaffLimit)
	}()
	wg.Wait()

	for _, loadErr := range []error{stErr, svcErr, staffErr} {
		if loadErr != nil {
			s.logger.Warn("catalog discovery fetch failed", zap.Error(loadErr))
		}
	}
	if stErr != nil && svcErr != nil && staffErr != nil {
		return nil, appErrors.Clone(appErrors.ErrUpstreamUnavailable, "all upstream catalog endpoints failed")
	}
	return &catalog, nil
}

func (s *AvailabilityService) collectSlots(ctx context.Context, startDate, endDate string, req dto.AvailabilityRequest, filterHour int, catalog *upstreamCatalog, resolvedStaff *models.StaffRecord) ([]models.AvailabilitySlot, string) {
	sessionTypeIDs := s.candidateSessionTypeIDs(catalog)
	lookups := buildCatalogLookups(catalog)

	slots, err := s.bookableItemsTier(ctx, startDate, endDate, sessionTypeIDs, lookups, catalog, resolvedStaff)
	if err != nil {
		s.logger.Warn("bookable items tier failed", zap.Error(err))
	}
	slots = s.filterSlots(dedupeSlots(slots), req, filterHour, resolvedStaff)
	if len(slots) > 0 {
		return slots, models.SourceBookableItems
	}

	slots, err = s.activeSessionTimesTier(ctx, startDate, endDate, sessionTypeIDs, lookups, catalog)
	if err != nil {
		s.logger.Warn("active session times tier failed", zap.Error(err))
	}
	slots = s.filterSlots(dedupeSlots(slots), req, filterHour, resolvedStaff)
	if len(slots) > 0 {
		return slots, models.SourceActiveSessionTimes
	}

	return s.staticCatalogTier(catalog, req), models.SourceStaticCatalog
}

// candidateSessionTypeIDs unions session type ids with service ids, since
// upstream sites file appointment offerings under either namespace. Capped at
// the batch limit because upstream rejects oversized id lists.
func (s *AvailabilityService) candidateSessionTypeIDs(catalog *upstreamCatalog) []string {
	seen := make(map[string]struct{}, len(catalog.sessionTypes)+len(catalog.services))
	ids := make([]string, 0, s.cfg.SessionTypeBatch)
	for _, st := range catalog.sessionTypes {
		if st.ID == "" {
			continue
		}
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}
		ids = append(ids, st.ID)
		if len(ids) >= s.cfg.SessionTypeBatch {
			return ids
		}
	}
	for _, svc := range catalog.services {
		if svc.ID == "" {
			continue
		}
		if _, dup := seen[svc.ID]; dup {
			continue
		}
		seen[svc.ID] = struct{}{}
		ids = append(ids, svc.ID)
		if len(ids) >= s.cfg.SessionTypeBatch {
			return ids
		}
	}
	return ids
}

// catalogLookups indexes the discovery datasets by id for slot enrichment.
type catalogLookups struct {
	servicesByID     map[string]models.ServiceRecord
	sessionTypesByID map[string]models.SessionTypeRecord
	staffByID        map[string]models.StaffRecord
}

func buildCatalogLookups(catalog *upstreamCatalog) catalogLookups {
	lookups := catalogLookups{
		servicesByID:     make(map[string]models.ServiceRecord, len(catalog.services)),
		sessionTypesByID: make(map[string]models.SessionTypeRecord, len(catalog.sessionTypes)),
		staffByID:        make(map[string]models.StaffRecord, len(catalog.staff)),
	}
	for _, svc := range catalog.services {
		lookups.servicesByID[svc.ID] = svc
	}
	for _, st := range catalog.sessionTypes {
		lookups.sessionTypesByID[st.ID] = st
	}
	for _, member := range catalog.staff {
		lookups.staffByID[member.ID] = member
	}
	return lookups
}

// dedupeSlots collapses slots sharing (session type, staff, start), keeping
// the first occurrence.
func dedupeSlots(slots []models.AvailabilitySlot) []models.AvailabilitySlot {
	if len(slots) < 2 {
		return slots
	}
	seen := make(map[string]struct{}, len(slots))
	deduped := slots[:0]
	for _, slot := range slots {
		key := slot.SessionTypeID + "|" + slot.StaffID + "|" + slot.StartDateTime
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, slot)
	}
	return deduped
}

func (s *AvailabilityService) bookableItemsTier(ctx context.Context, startDate, endDate string, sessionTypeIDs []string, lookups catalogLookups, catalog *upstreamCatalog, resolvedStaff *models.StaffRecord) ([]models.AvailabilitySlot, error) {
	if len(sessionTypeIDs) == 0 {
		return nil, nil
	}
	query := mindbody.BookableItemsQuery{
		SessionTypeIDs: sessionTypeIDs,
		StartDate:      startDate,
		EndDate:        endDate,
	}
	if resolvedStaff != nil {
		query.StaffIDs = []string{resolvedStaff.ID}
	}
	items, err := s.client.GetBookableItems(ctx, query)
	if err != nil {
		return nil, err
	}

	slots := make([]models.AvailabilitySlot, 0, len(items))
	for _, item := range items {
		// Items without a start or a session type cannot become slots.
		if item.StartDateTime == "" || item.SessionTypeID == "" {
			continue
		}
		slotDate, slotTime := splitDateTime(item.StartDateTime)
		slot := models.AvailabilitySlot{
			ID:             item.ID,
			SessionTypeID:  item.SessionTypeID,
			StaffID:        item.StaffID,
			StartDateTime:  item.StartDateTime,
			Date:           slotDate,
			Time:           slotTime,
			Name:           item.SessionTypeName,
			Duration:       item.Duration,
			TherapistID:    item.StaffID,
			TherapistName:  item.StaffName,
			TherapistPhoto: item.StaffImageURL,
			LocationID:     item.LocationID,
			LocationName:   item.LocationName,
			Source:         models.SourceBookableItems,
		}
		if slot.ID == "" {
			slot.ID = newSlotID()
		}
		s.enrichSlot(&slot, lookups, catalog.services)
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *AvailabilityService) activeSessionTimesTier(ctx context.Context, startDate, endDate string, sessionTypeIDs []string, lookups catalogLookups, catalog *upstreamCatalog) ([]models.AvailabilitySlot, error) {
	if len(sessionTypeIDs) == 0 {
		return nil, nil
	}
	times, err := s.client.GetActiveSessionTimes(ctx, mindbody.ActiveSessionTimesQuery{
		SessionTypeIDs: sessionTypeIDs,
		ScheduleType:   "Appointment",
		StartTime:      startDate + "T00:00:00",
		EndTime:        endDate + "T23:59:59",
	})
	if err != nil {
		return nil, err
	}

	slots := make([]models.AvailabilitySlot, 0, len(times))
	for _, t := range times {
		if t.StartDateTime == "" || t.SessionTypeID == "" {
			continue
		}
		slotDate, slotTime := splitDateTime(t.StartDateTime)
		slot := models.AvailabilitySlot{
			ID:            t.ID,
			SessionTypeID: t.SessionTypeID,
			StaffID:       t.StaffID,
			StartDateTime: t.StartDateTime,
			Date:          slotDate,
			Time:          slotTime,
			LocationID:    t.LocationID,
			LocationName:  t.LocationName,
			Source:        models.SourceActiveSessionTimes,
		}
		if member, ok := lookups.staffByID[t.StaffID]; ok {
			slot.TherapistID = member.ID
			slot.TherapistName = member.Name
			slot.TherapistPhoto = member.ImageURL
		}
		if slot.ID == "" {
			slot.ID = newSlotID()
		}
		s.enrichSlot(&slot, lookups, catalog.services)
		slots = append(slots, slot)
	}
	return slots, nil
}

// staticCatalogTier derives timeless slots from the priced catalog. Date and
// hour filters never apply here; the catalog has nothing to filter on.
func (s *AvailabilityService) staticCatalogTier(catalog *upstreamCatalog, req dto.AvailabilityRequest) []models.AvailabilitySlot {
	seen := make(map[string]struct{}, len(catalog.services))
	slots := make([]models.AvailabilitySlot, 0, len(catalog.services))
	for _, svc := range catalog.services {
		if svc.ID != "" {
			if _, dup := seen[svc.ID]; dup {
				continue
			}
			seen[svc.ID] = struct{}{}
		}

		category := s.classifier.Classify(svc.Category)
		if !matchesCategoryFilter(req.Categories, category) {
			continue
		}
		therapist := s.resolver.ExtractNameLoose(svc.Name)
		if req.Therapist != "" && !s.resolver.MatchesFilter(req.Therapist, therapist, svc.Name) {
			continue
		}

		slots = append(slots, models.AvailabilitySlot{
			ID:            "svc-" + svc.ID,
			Name:          svc.Name,
			Duration:      svc.Duration,
			Price:         svc.Price,
			Category:      category,
			TherapistName: therapist,
			Source:        models.SourceStaticCatalog,
		})
	}
	return slots
}

// enrichSlot fills name, price, duration and category by joining the slot's
// session type id against the service catalog first, then the session type
// list. Name matching against the catalog is a last resort for slots whose
// id appears in neither table.
func (s *AvailabilityService) enrichSlot(slot *models.AvailabilitySlot, lookups catalogLookups, services []models.ServiceRecord) {
	rawCategory := ""
	if svc, ok := lookups.servicesByID[slot.SessionTypeID]; ok {
		if slot.Name == "" {
			slot.Name = svc.Name
		}
		slot.Price = svc.Price
		if slot.Duration == 0 {
			slot.Duration = svc.Duration
		}
		rawCategory = svc.Category
	} else if st, ok := lookups.sessionTypesByID[slot.SessionTypeID]; ok {
		if slot.Name == "" {
			slot.Name = st.Name
		}
		if slot.Duration == 0 {
			slot.Duration = st.DefaultDuration
		}
	}
	if slot.Price == 0 || rawCategory == "" {
		if matched := matchServiceByName(services, slot.Name); matched != nil {
			if slot.Price == 0 {
				slot.Price = matched.Price
			}
			if slot.Duration == 0 {
				slot.Duration = matched.Duration
			}
			if rawCategory == "" {
				rawCategory = matched.Category
			}
		}
	}
	if rawCategory == "" {
		rawCategory = slot.Name
	}
	slot.Category = s.classifier.Classify(rawCategory)

	if slot.TherapistName == "" {
		slot.TherapistName = s.resolver.ExtractName(slot.Name)
	}
}

func (s *AvailabilityService) filterSlots(slots []models.AvailabilitySlot, req dto.AvailabilityRequest, filterHour int, resolvedStaff *models.StaffRecord) []models.AvailabilitySlot {
	if len(slots) == 0 {
		return slots
	}
	filtered := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if !matchesCategoryFilter(req.Categories, slot.Category) {
			continue
		}
		if req.Therapist != "" && !s.slotMatchesTherapist(slot, req.Therapist, resolvedStaff) {
			continue
		}
		if filterHour >= 0 && !withinHourWindow(slot.Time, filterHour, s.cfg.TimeWindowHours) {
			continue
		}
		filtered = append(filtered, slot)
	}
	return filtered
}

// matchesCategoryFilter reports whether a classified category passes the
// requested category list. An empty list passes everything.
func matchesCategoryFilter(filters []string, category string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, filter := range filters {
		if strings.EqualFold(strings.TrimSpace(filter), category) {
			return true
		}
	}
	return false
}

// slotMatchesTherapist compares staff ids whenever the filter resolved to a
// staff member; slots without a staff id do not pass an id filter. Name
// matching only applies when no staff member matched the filter.
func (s *AvailabilityService) slotMatchesTherapist(slot models.AvailabilitySlot, filter string, resolvedStaff *models.StaffRecord) bool {
	if resolvedStaff != nil {
		return slot.StaffID == resolvedStaff.ID
	}
	return s.resolver.MatchesFilter(filter, slot.TherapistName, slot.Name)
}

func (s *AvailabilityService) buildResponse(slots []models.AvailabilitySlot, source string) *dto.AvailabilityResponse {
	sort.SliceStable(slots, func(i, j int) bool {
		// Timeless catalog slots sort after dated ones.
		if slots[i].StartDateTime == "" {
			return false
		}
		if slots[j].StartDateTime == "" {
			return true
		}
		return slots[i].StartDateTime < slots[j].StartDateTime
	})

	byDate := make(map[string][]models.AvailabilitySlot)
	therapistSeen := make(map[string]struct{})
	therapists := make([]models.TherapistSummary, 0)
	categorySeen := make(map[string]struct{})
	for _, slot := range slots {
		key := slot.Date
		if key == "" {
			key = dto.NoDateKey
		}
		byDate[key] = append(byDate[key], slot)

		if slot.TherapistName != "" {
			nameKey := strings.ToLower(slot.TherapistName)
			if _, dup := therapistSeen[nameKey]; !dup {
				therapistSeen[nameKey] = struct{}{}
				therapists = append(therapists, models.TherapistSummary{
					ID:    slot.TherapistID,
					Name:  slot.TherapistName,
					Photo: slot.TherapistPhoto,
				})
			}
		}
		if slot.Category != "" {
			categorySeen[slot.Category] = struct{}{}
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		if date == dto.NoDateKey {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	sort.Slice(therapists, func(i, j int) bool { return therapists[i].Name < therapists[j].Name })

	categories := make([]string, 0, len(categorySeen))
	for _, target := range models.TargetCategories {
		if _, ok := categorySeen[target]; ok {
			categories = append(categories, target)
		}
	}
	if _, ok := categorySeen[models.Uncategorized]; ok {
		categories = append(categories, models.Uncategorized)
	}

	return &dto.AvailabilityResponse{
		Slots:       slots,
		SlotsByDate: byDate,
		Dates:       dates,
		Therapists:  therapists,
		Categories:  categories,
		TotalSlots:  len(slots),
		DataSource:  source,
		HasLiveData: source != models.SourceStaticCatalog,
		GeneratedAt: s.now().UTC(),
	}
}

func matchServiceByName(services []models.ServiceRecord, name string) *models.ServiceRecord {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range services {
		if strings.ToLower(services[i].Name) == needle {
			return &services[i]
		}
	}
	for i := range services {
		candidate := strings.ToLower(services[i].Name)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &services[i]
		}
	}
	return nil
}

// splitDateTime breaks an upstream timestamp into its date and HH:MM parts.
func splitDateTime(raw string) (string, string) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), t.Format("15:04")
		}
	}
	return "", ""
}

// parseHour accepts 24h clock values ("14:30", "14") and 12h values with a
// meridiem ("2:30 PM", "2 PM").
func parseHour(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3 PM", "3:04PM", "3PM"} {
		if t, err := time.Parse(layout, strings.ToUpper(raw)); err == nil {
			return t.Hour(), true
		}
	}
	if hour, err := strconv.Atoi(raw); err == nil && hour >= 0 && hour <= 23 {
		return hour, true
	}
	return 0, false
}

func withinHourWindow(slotTime string, filterHour, window int) bool {
	if slotTime == "" {
		return false
	}
	parsed, err := time.Parse("15:04", slotTime)
	if err != nil {
		return false
	}
	diff := parsed.Hour() - filterHour
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

func newSlotID() string {
	return uuid.NewString()
}
