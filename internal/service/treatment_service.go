package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/home-wellness/spa-booking-api/internal/dto"
	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
	"github.com/home-wellness/spa-booking-api/pkg/export"
)

type treatmentCatalogClient interface {
	IsConfigured() bool
	GetServices(ctx context.Context, limit int) ([]models.ServiceRecord, error)
	GetStaff(ctx context.Context, limit int) ([]models.StaffRecord, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TreatmentServiceConfig tunes menu composition.
type TreatmentServiceConfig struct {
	CacheTTL     time.Duration
	ServiceLimit int
	StaffLimit   int
	MenuName     string
}

// TreatmentService folds the flat priced catalog into a menu: one group per
// therapist and treatment, with duration variants collected under it. The
// studio encodes duration and therapist into service names, so a 60 and a
// 90 minute listing of the same massage arrive as separate services.
type TreatmentService struct {
	client     treatmentCatalogClient
	cache      *CacheService
	classifier *Classifier
	resolver   *TherapistResolver
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	now        func() time.Time
	cfg        TreatmentServiceConfig
}

// TreatmentServiceParams groups constructor dependencies.
type TreatmentServiceParams struct {
	Client     treatmentCatalogClient
	Cache      *CacheService
	Classifier *Classifier
	Resolver   *TherapistResolver
	CSV        csvRenderer
	PDF        pdfRenderer
	Logger     *zap.Logger
	Config     TreatmentServiceConfig
}

// NewTreatmentService constructs a TreatmentService with sane defaults.
func NewTreatmentService(params TreatmentServiceParams) *TreatmentService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.ServiceLimit <= 0 {
		cfg.ServiceLimit = 1000
	}
	if cfg.StaffLimit <= 0 {
		cfg.StaffLimit = 500
	}
	if cfg.MenuName == "" {
		cfg.MenuName = "Treatment Menu"
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = NewClassifier()
	}
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewTherapistResolver()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreatmentService{
		client:     params.Client,
		cache:      params.Cache,
		classifier: classifier,
		resolver:   resolver,
		csv:        csv,
		pdf:        pdf,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

var durationInNamePattern = regexp.MustCompile(`(?i)(\d+)\s*min`)

// Menu returns the grouped treatment menu and indicates cache utilisation.
func (s *TreatmentService) Menu(ctx context.Context, req dto.TreatmentMenuRequest) (*dto.TreatmentMenuResponse, bool, error) {
	if !s.client.IsConfigured() {
		return nil, false, appErrors.ErrNotConfigured
	}

	cacheKey := fmt.Sprintf("treatments:%s:%s", strings.ToLower(req.Category), strings.ToLower(req.Therapist))
	if s.cache != nil {
		var cached dto.TreatmentMenuResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	services, err := s.client.GetServices(ctx, s.cfg.ServiceLimit)
	if err != nil {
		return nil, false, err
	}
	staff, err := s.client.GetStaff(ctx, s.cfg.StaffLimit)
	if err != nil {
		s.logger.Warn("staff fetch failed, therapist photos unavailable", zap.Error(err))
		staff = nil
	}

	groups := s.buildGroups(services, staff, req)
	resp := &dto.TreatmentMenuResponse{
		Groups:      groups,
		Categories:  presentCategories(groups),
		TotalGroups: len(groups),
		GeneratedAt: s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("treatment cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return resp, false, nil
}

// ExportMenu renders the grouped menu as CSV or PDF and returns the payload
// with its content type and suggested filename.
func (s *TreatmentService) ExportMenu(ctx context.Context, format string, req dto.TreatmentMenuRequest) ([]byte, string, string, error) {
	menu, _, err := s.Menu(ctx, req)
	if err != nil {
		return nil, "", "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Treatment", "Category", "Therapist", "Duration (mins)", "Price"},
	}
	for _, group := range menu.Groups {
		for _, variant := range group.Variants {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Category":        group.Category,
				"Treatment":       group.BaseName,
				"Therapist":       group.Therapist,
				"Duration (mins)": strconv.Itoa(variant.Duration),
				"Price":           fmt.Sprintf("%.2f", variant.Price),
			})
		}
	}

	stamp := s.now().UTC().Format("2006-01-02")
	switch strings.ToLower(format) {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", fmt.Errorf("render menu csv: %w", err)
		}
		return payload, "text/csv", fmt.Sprintf("treatment-menu-%s.csv", stamp), nil
	case "", "pdf":
		payload, err := s.pdf.Render(dataset, s.cfg.MenuName)
		if err != nil {
			return nil, "", "", fmt.Errorf("render menu pdf: %w", err)
		}
		return payload, "application/pdf", fmt.Sprintf("treatment-menu-%s.pdf", stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *TreatmentService) buildGroups(services []models.ServiceRecord, staff []models.StaffRecord, req dto.TreatmentMenuRequest) []models.TreatmentGroup {
	seenServices := make(map[string]struct{}, len(services))
	groupIndex := make(map[string]int)
	groups := make([]models.TreatmentGroup, 0)

	for _, svc := range services {
		if svc.ID != "" {
			if _, dup := seenServices[svc.ID]; dup {
				continue
			}
			seenServices[svc.ID] = struct{}{}
		}

		therapist := s.resolver.ExtractNameLoose(svc.Name)
		baseName := baseTreatmentName(svc.Name, therapist)
		duration := svc.Duration
		if duration <= 0 {
			duration = durationFromName(svc.Name)
		}
		if duration < 0 {
			duration = 0
		}

		category := s.classifier.Classify(svc.Category)
		if req.Category != "" && !strings.EqualFold(req.Category, category) {
			continue
		}
		if req.Therapist != "" && !s.resolver.MatchesFilter(req.Therapist, therapist, svc.Name) {
			continue
		}
		if therapist == "" {
			therapist = "General"
		}

		key := strings.ToLower(therapist) + "|" + strings.ToLower(baseName)
		idx, exists := groupIndex[key]
		if !exists {
			group := models.TreatmentGroup{
				Therapist: therapist,
				BaseName:  baseName,
				Category:  category,
			}
			if member := s.resolver.ResolveStaff(therapist, staff); member != nil {
				group.TherapistPhoto = member.ImageURL
			}
			groups = append(groups, group)
			idx = len(groups) - 1
			groupIndex[key] = idx
		}

		duplicate := false
		for _, variant := range groups[idx].Variants {
			if variant.Duration == duration {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		groups[idx].Variants = append(groups[idx].Variants, models.TreatmentVariant{
			ServiceID: svc.ID,
			Duration:  duration,
			Price:     svc.Price,
		})
	}

	for i := range groups {
		groups[i].Variants = dropZeroDurationVariants(groups[i].Variants)
		sort.Slice(groups[i].Variants, func(a, b int) bool {
			return groups[i].Variants[a].Duration < groups[i].Variants[b].Duration
		})
	}
	sort.Slice(groups, func(a, b int) bool {
		if groups[a].Category != groups[b].Category {
			return groups[a].Category < groups[b].Category
		}
		if groups[a].BaseName != groups[b].BaseName {
			return groups[a].BaseName < groups[b].BaseName
		}
		return groups[a].Therapist < groups[b].Therapist
	})
	return groups
}

var trailingDurationPattern = regexp.MustCompile(`(?i)\s*-?\s*\d+\s*min(?:ute)?s?\.?\s*$`)

// baseTreatmentName is the canonical treatment label: the service name with
// the extracted therapist segment and any trailing duration suffix removed.
// Segments the resolver did not claim stay part of the label. A name that
// strips down to nothing keeps its original form.
func baseTreatmentName(serviceName, therapist string) string {
	base := serviceName
	if therapist != "" {
		base = strings.Replace(base, " - "+therapist, "", 1)
	}
	base = trailingDurationPattern.ReplaceAllString(base, "")
	base = strings.TrimSpace(strings.Trim(strings.TrimSpace(base), "-"))
	if base == "" {
		return strings.TrimSpace(serviceName)
	}
	return base
}

// dropZeroDurationVariants removes placeholder zero-duration variants once a
// real duration exists for the group. A group made up entirely of
// zero-duration listings keeps them.
func dropZeroDurationVariants(variants []models.TreatmentVariant) []models.TreatmentVariant {
	hasTimed := false
	for _, variant := range variants {
		if variant.Duration > 0 {
			hasTimed = true
			break
		}
	}
	if !hasTimed {
		return variants
	}
	kept := variants[:0]
	for _, variant := range variants {
		if variant.Duration == 0 {
			continue
		}
		kept = append(kept, variant)
	}
	return kept
}

func durationFromName(serviceName string) int {
	match := durationInNamePattern.FindStringSubmatch(serviceName)
	if match == nil {
		return 0
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return value
}

func presentCategories(groups []models.TreatmentGroup) []string {
	seen := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		seen[group.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for _, target := range models.TargetCategories {
		if _, ok := seen[target]; ok {
			categories = append(categories, target)
		}
	}
	if _, ok := seen[models.Uncategorized]; ok {
		categories = append(categories, models.Uncategorized)
	}
	return categories
}
