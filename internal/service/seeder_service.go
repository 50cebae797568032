package service

import (
	"context"
	"errors"
	"fmt"

	"event-ticketing/config"
	"event-ticketing/internal/identity"
	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"
	apperrors "event-ticketing/pkg/app_errors"
	"event-ticketing/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SeedSummary 每類資料新建與已存在的筆數
type SeedSummary struct {
	CategoriesCreated  int `json:"categories_created"`
	CategoriesExisting int `json:"categories_existing"`
	UsersCreated       int `json:"users_created"`
	UsersExisting      int `json:"users_existing"`
	EventsCreated      int `json:"events_created"`
	EventsExisting     int `json:"events_existing"`
	TicketsCreated     int `json:"tickets_created"`
}

type SeederService interface {
	// UpsertCategory 以 slug 為自然鍵，已存在時不修改
	UpsertCategory(ctx context.Context, seed CategorySeed) (*model.Category, bool, error)
	// UpsertUser 以 email 為自然鍵，已存在時不修改也不重新 hash
	UpsertUser(ctx context.Context, seed UserSeed) (*model.User, bool, error)
	// Run 可重複執行，任何非「已存在」的錯誤都會中止整個流程
	Run(ctx context.Context) (SeedSummary, error)
}

type SeederServiceImpl struct {
	categoryRepo  repository.CategoryRepository
	userRepo      repository.UserRepository
	eventService  EventService
	ticketService TicketService
	identity      identity.Store
	cfg           config.SeederConfig
	log           *zap.Logger
}

func NewSeederService(
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	eventService EventService,
	ticketService TicketService,
	identityStore identity.Store,
	cfg config.SeederConfig,
) SeederService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &SeederServiceImpl{
		categoryRepo:  categoryRepo,
		userRepo:      userRepo,
		eventService:  eventService,
		ticketService: ticketService,
		identity:      identityStore,
		cfg:           cfg,
		log:           logger.WithComponent("seeder"),
	}
}

func (s *SeederServiceImpl) UpsertCategory(ctx context.Context, seed CategorySeed) (*model.Category, bool, error) {
	if seed.Slug == "" {
		return nil, false, fmt.Errorf("%w: category slug is required", apperrors.ErrInvalidInput)
	}
	return s.categoryRepo.InsertIfAbsent(ctx, &model.Category{
		Name:        seed.Name,
		Slug:        seed.Slug,
		Description: seed.Description,
		Color:       seed.Color,
		Icon:        seed.Icon,
	})
}

func (s *SeederServiceImpl) UpsertUser(ctx context.Context, seed UserSeed) (*model.User, bool, error) {
	if seed.Email == "" {
		return nil, false, fmt.Errorf("%w: user email is required", apperrors.ErrInvalidInput)
	}
	role := seed.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.IsValid() {
		return nil, false, fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidInput, role)
	}

	existing, err := s.userRepo.FindByEmail(ctx, seed.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := s.identity.Hash(seed.Password)
	if err != nil {
		return nil, false, err
	}

	// 兩個 seeder 同時執行時，由唯一鍵決定誰寫入
	return s.userRepo.InsertIfAbsent(ctx, &model.User{
		Email:        seed.Email,
		Name:         seed.Name,
		PasswordHash: hash,
		Role:         role,
	})
}

func (s *SeederServiceImpl) Run(ctx context.Context) (SeedSummary, error) {
	var summary SeedSummary

	categories, err := s.seedCategories(ctx, DefaultCategories(), &summary)
	if err != nil {
		return summary, fmt.Errorf("seed categories: %w", err)
	}
	s.log.Info("categories seeded",
		zap.Int("created", summary.CategoriesCreated),
		zap.Int("existing", summary.CategoriesExisting),
	)

	users, err := s.seedUsers(ctx, DefaultUsers(s.cfg.Password), &summary)
	if err != nil {
		return summary, fmt.Errorf("seed users: %w", err)
	}
	s.log.Info("users seeded",
		zap.Int("created", summary.UsersCreated),
		zap.Int("existing", summary.UsersExisting),
	)

	organizer, holder := users[0], users[1]
	events, err := s.seedEvents(ctx, DefaultEvents(), organizer, categories, &summary)
	if err != nil {
		return summary, fmt.Errorf("seed events: %w", err)
	}
	s.log.Info("events seeded",
		zap.Int("created", summary.EventsCreated),
		zap.Int("existing", summary.EventsExisting),
	)

	created, err := s.seedDemoTicket(ctx, events[0], holder)
	if err != nil {
		return summary, fmt.Errorf("seed demo ticket: %w", err)
	}
	if created {
		summary.TicketsCreated++
	}

	s.log.Info("seeding completed", zap.Any("summary", summary))
	return summary, nil
}

// seedCategories 並行寫入，結果依輸入順序排列
func (s *SeederServiceImpl) seedCategories(ctx context.Context, seeds []CategorySeed, summary *SeedSummary) (map[string]*model.Category, error) {
	results := make([]*model.Category, len(seeds))
	created := make([]bool, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			category, isNew, err := s.UpsertCategory(gctx, seed)
			if err != nil {
				return fmt.Errorf("category %s: %w", seed.Slug, err)
			}
			results[i], created[i] = category, isNew
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bySlug := make(map[string]*model.Category, len(results))
	for i, category := range results {
		bySlug[category.Slug] = category
		if created[i] {
			summary.CategoriesCreated++
		} else {
			summary.CategoriesExisting++
		}
	}
	return bySlug, nil
}

func (s *SeederServiceImpl) seedUsers(ctx context.Context, seeds []UserSeed, summary *SeedSummary) ([]*model.User, error) {
	results := make([]*model.User, len(seeds))
	created := make([]bool, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			user, isNew, err := s.UpsertUser(gctx, seed)
			if err != nil {
				return fmt.Errorf("user %s: %w", seed.Email, err)
			}
			results[i], created[i] = user, isNew
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		if created[i] {
			summary.UsersCreated++
		} else {
			summary.UsersExisting++
		}
	}
	return results, nil
}

func (s *SeederServiceImpl) seedEvents(
	ctx context.Context,
	seeds []EventSeed,
	organizer *model.User,
	categories map[string]*model.Category,
	summary *SeedSummary,
) ([]*model.Event, error) {
	results := make([]*model.Event, len(seeds))
	created := make([]bool, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, seed := range seeds {
		category, ok := categories[seed.CategorySlug]
		if !ok {
			return nil, fmt.Errorf("event %s: %w", seed.Slug, apperrors.ErrCategoryNotFound)
		}
		g.Go(func() error {
			event, isNew, err := s.ensureEvent(gctx, seed, organizer.ID, category.ID)
			if err != nil {
				return fmt.Errorf("event %s: %w", seed.Slug, err)
			}
			results[i], created[i] = event, isNew
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		if created[i] {
			summary.EventsCreated++
		} else {
			summary.EventsExisting++
		}
	}
	return results, nil
}

// ensureEvent slug 已存在是正常狀態，回傳既有活動
func (s *SeederServiceImpl) ensureEvent(ctx context.Context, seed EventSeed, organizerID, categoryID int) (*model.Event, bool, error) {
	event := &model.Event{
		Title:       seed.Title,
		Slug:        seed.Slug,
		Description: seed.Description,
		StartDate:   seed.StartDate,
		EndDate:     seed.EndDate,
		Location:    seed.Location,
		Address:     seed.Address,
		City:        seed.City,
		Country:     seed.Country,
		Capacity:    seed.Capacity,
		Price:       seed.Price,
		Status:      model.EventStatusPublished,
		Featured:    seed.Featured,
		Tags:        seed.Tags,
		OrganizerID: organizerID,
		CategoryID:  categoryID,
	}
	if seed.Image != "" {
		image := seed.Image
		event.Image = &image
	}

	created, err := s.eventService.Create(ctx, event)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateSlug) {
		return nil, false, err
	}

	existing, err := s.eventService.GetBySlug(ctx, seed.Slug)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// seedDemoTicket 使用者已持有該活動的有效票時跳過，檢查與發票在同一個活動鎖內
func (s *SeederServiceImpl) seedDemoTicket(ctx context.Context, event *model.Event, holder *model.User) (bool, error) {
	ticket, created, err := s.ticketService.IssueIfAbsent(ctx, event.ID, holder.ID)
	if errors.Is(err, apperrors.ErrDuplicateTicket) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}
	s.log.Info("demo ticket issued", zap.Int("ticket_id", ticket.ID), zap.Int("event_id", event.ID))
	return true, nil
}
