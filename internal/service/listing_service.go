package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/pata-backend/internal/goroutine"
	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/metrics"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

// События, отправляемые владельцу через websocket.
const (
	EventListingApproved = "listing.approved"
	EventListingRejected = "listing.rejected"
)

// Значение параметра state для админской выборки без фильтра по модерации.
const AdminStateAll = "all"

// ListingRepository описывает хранилище публикаций.
type ListingRepository interface {
	Create(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, l *models.Listing) error
	List(ctx context.Context, f repository.ListingFilter, page repository.Page) ([]models.Listing, int, error)
	Count(ctx context.Context, f repository.ListingFilter) (int, error)
}

// UserLookup нужен для поиска email владельца.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Mailer отправляет письма. Ошибки отправки сервис только логирует.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher доставляет события пользователю (websocket hub).
type EventPublisher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// CreateListingInput данные новой публикации. Состояние модерации задать нельзя.
type CreateListingInput struct {
	PublicationType string
	Name            string
	Species         string
	Breed           string
	Sex             string
	Age             string
	Size            string
	Microchip       bool
	Vaccinated      bool
	Dewormed        bool
	Sterilized      bool
	Health          string
	Region          string
	Commune         string
	Description     string
	ImageURL        string
	Location        string
	Latitude        *float64
	Longitude       *float64
	Contact         models.Contact
}

// ListingService реализует жизненный цикл публикаций и модерацию.
type ListingService struct {
	repo    ListingRepository
	users   UserLookup
	mailer  Mailer
	events  EventPublisher
	runner  goroutine.Runner
	metrics *metrics.Metrics
	cache   *CacheService
	now     func() time.Time
	mailTTL time.Duration
}

// NewListingService создаёт сервис публикаций. mailer, events и m могут быть nil.
func NewListingService(repo ListingRepository, users UserLookup, mailer Mailer, events EventPublisher, runner goroutine.Runner, m *metrics.Metrics) *ListingService {
	if runner == nil {
		runner = goroutine.NewRecoveryHandler(logger.Get())
	}
	return &ListingService{
		repo:    repo,
		users:   users,
		mailer:  mailer,
		events:  events,
		runner:  runner,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		mailTTL: 15 * time.Second,
	}
}

// SetMailTimeout задаёт таймаут фоновой отправки письма.
func (s *ListingService) SetMailTimeout(d time.Duration) {
	if d > 0 {
		s.mailTTL = d
	}
}

// SetCache включает кеширование публичной статистики.
func (s *ListingService) SetCache(c *CacheService) {
	s.cache = c
}

// Create создаёт публикацию в состоянии pending.
func (s *ListingService) Create(ctx context.Context, actor *Actor, in CreateListingInput) (*models.Listing, error) {
	pubType := models.PublicationType(strings.TrimSpace(in.PublicationType))
	if !pubType.Valid() {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "tipo de publicación inválido: debe ser adoption o lost")
	}

	if err := validateListingInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	l := &models.Listing{
		ID:              uuid.New(),
		PublicationType: pubType,
		ModerationState: models.ModerationPending,
		RejectionReason: "",
		Name:            in.Name,
		Species:         in.Species,
		Breed:           in.Breed,
		Sex:             in.Sex,
		Age:             in.Age,
		Size:            in.Size,
		Microchip:       in.Microchip,
		Vaccinated:      in.Vaccinated,
		Dewormed:        in.Dewormed,
		Sterilized:      in.Sterilized,
		Health:          in.Health,
		Region:          in.Region,
		Commune:         in.Commune,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Location:        in.Location,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Contact:         in.Contact,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if l.Name == "" {
		l.Name = models.DefaultListingName
	}

	switch pubType {
	case models.PublicationAdoption:
		l.AdoptionState = models.AdoptionAvailable
	case models.PublicationLost:
		l.LostState = models.LostStateLost
	}

	if !actor.IsAnonymous() {
		owner := actor.UserID
		l.OwnerID = &owner
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, apperror.Internal(fmt.Errorf("listing service: create: %w", err))
	}

	s.metrics.IncTransition("create")
	logger.Get().WithFields(logrus.Fields{
		"listing_id": l.ID,
		"type":       l.PublicationType,
		"anonymous":  l.OwnerID == nil,
	}).Info("publicación creada")

	return l, nil
}

func validateListingInput(in *CreateListingInput) error {
	trim := []*string{
		&in.Name, &in.Species, &in.Breed, &in.Sex, &in.Age, &in.Size, &in.Health,
		&in.Region, &in.Commune, &in.Description, &in.ImageURL, &in.Location,
		&in.Contact.Name, &in.Contact.Phone, &in.Contact.Email, &in.Contact.Social,
	}
	for _, p := range trim {
		*p = strings.TrimSpace(*p)
	}
	in.Contact.Email = validation.NormalizeEmail(in.Contact.Email)

	checks := []error{
		validation.ValidateLength("el nombre", in.Name, 0, validation.MaxPetNameLength),
		validation.ValidateLength("la descripción", in.Description, 0, validation.MaxDescriptionLength),
		validation.ValidateLength("la ubicación", in.Location, 0, validation.MaxLocationLength),
		validation.ValidateLength("la región", in.Region, 0, validation.MaxShortFieldLength),
		validation.ValidateLength("la comuna", in.Commune, 0, validation.MaxShortFieldLength),
		validation.ValidateCoordinates(in.Latitude, in.Longitude),
		validation.ValidateOptionalEmail(in.Contact.Email),
		validation.ValidateOptionalPhone(in.Contact.Phone),
	}
	for _, err := range checks {
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	return nil
}

// Get возвращает публикацию с учётом прав смотрящего.
// Не одобренная публикация видна только администратору и владельцу,
// для остальных она неотличима от несуществующей.
func (s *ListingService) Get(ctx context.Context, viewer *Actor, id uuid.UUID) (*models.Listing, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.IsApproved() || viewer.IsAdmin() || viewer.Owns(l) {
		return l, nil
	}
	return nil, apperror.ErrListingNotFound
}

// ListPublic возвращает только одобренные публикации.
func (s *ListingService) ListPublic(ctx context.Context, f repository.ListingFilter, page repository.Page) (PageResult[models.Listing], error) {
	f.ModerationState = models.ModerationApproved
	return s.list(ctx, f, page)
}

// ListAdmin возвращает публикации в заданном состоянии модерации (по умолчанию pending).
func (s *ListingService) ListAdmin(ctx context.Context, actor *Actor, state string, f repository.ListingFilter, page repository.Page) (PageResult[models.Listing], error) {
	if !actor.IsAdmin() {
		return PageResult[models.Listing]{}, apperror.ErrForbidden
	}

	switch state = strings.ToLower(strings.TrimSpace(state)); state {
	case "":
		f.ModerationState = models.ModerationPending
	case AdminStateAll:
		f.ModerationState = ""
	default:
		ms := models.ModerationState(state)
		if !ms.Valid() {
			return PageResult[models.Listing]{}, apperror.New(apperror.ErrCodeInvalidInput, "estado de moderación inválido")
		}
		f.ModerationState = ms
	}
	f.IncludeAdopted = true
	f.IncludeFound = true

	return s.list(ctx, f, page)
}

// ListMine возвращает публикации актора во всех состояниях.
func (s *ListingService) ListMine(ctx context.Context, actor *Actor, f repository.ListingFilter, page repository.Page) (PageResult[models.Listing], error) {
	if actor.IsAnonymous() {
		return PageResult[models.Listing]{}, apperror.ErrUnauthorized
	}

	owner := actor.UserID
	f.OwnerID = &owner
	f.ModerationState = ""
	f.IncludeAdopted = true
	f.IncludeFound = true

	return s.list(ctx, f, page)
}

func (s *ListingService) list(ctx context.Context, f repository.ListingFilter, page repository.Page) (PageResult[models.Listing], error) {
	if f.PublicationType != "" && !f.PublicationType.Valid() {
		return PageResult[models.Listing]{}, apperror.New(apperror.ErrCodeInvalidInput, "tipo de publicación inválido: debe ser adoption o lost")
	}

	page = page.Normalize()
	items, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return PageResult[models.Listing]{}, apperror.Internal(fmt.Errorf("listing service: list: %w", err))
	}
	return newPageResult(items, total, page.Number, page.Size), nil
}

// Approve переводит публикацию в approved. Повторное одобрение ничего не меняет.
func (s *ListingService) Approve(ctx context.Context, actor *Actor, id uuid.UUID) (*models.Listing, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.ModerationState == models.ModerationApproved {
		return l, nil
	}

	now := s.now()
	reviewer := actor.UserID
	l.ModerationState = models.ModerationApproved
	l.RejectionReason = ""
	l.ReviewerID = &reviewer
	l.ReviewedAt = &now
	l.UpdatedAt = now

	if err := s.save(ctx, l); err != nil {
		return nil, err
	}

	s.cache.InvalidateListings()
	s.metrics.IncTransition("approve")
	logger.Get().WithFields(logrus.Fields{
		"listing_id":  l.ID,
		"reviewer_id": reviewer,
	}).Info("publicación aprobada")

	s.publish(ctx, l, EventListingApproved)
	return l, nil
}

// Reject переводит публикацию в rejected с причиной и уведомляет владельца.
// Ошибки уведомления логируются и не возвращаются.
func (s *ListingService) Reject(ctx context.Context, actor *Actor, id uuid.UUID, reason string) (*models.Listing, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if err := validation.ValidateLength("el motivo", reason, 0, validation.MaxReasonLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reviewer := actor.UserID
	l.ModerationState = models.ModerationRejected
	l.RejectionReason = reason
	l.ReviewerID = &reviewer
	l.ReviewedAt = &now
	l.UpdatedAt = now

	if err := s.save(ctx, l); err != nil {
		return nil, err
	}

	s.cache.InvalidateListings()
	s.metrics.IncTransition("reject")
	logger.Get().WithFields(logrus.Fields{
		"listing_id":  l.ID,
		"reviewer_id": reviewer,
	}).Info("publicación rechazada")

	s.notifyRejected(ctx, l)
	s.publish(ctx, l, EventListingRejected)
	return l, nil
}

// MarkAdopted отмечает питомца пристроенным. Доступно только владельцу.
func (s *ListingService) MarkAdopted(ctx context.Context, actor *Actor, id uuid.UUID) (*models.Listing, error) {
	return s.markTerminal(ctx, actor, id, models.PublicationAdoption)
}

// MarkFound отмечает пропавшего питомца найденным. Доступно только владельцу.
func (s *ListingService) MarkFound(ctx context.Context, actor *Actor, id uuid.UUID) (*models.Listing, error) {
	return s.markTerminal(ctx, actor, id, models.PublicationLost)
}

// markTerminal проверяет по порядку: существование, владельца, тип, одобрение.
// Повторный вызов на уже завершённой публикации ничего не записывает.
func (s *ListingService) markTerminal(ctx context.Context, actor *Actor, id uuid.UUID, want models.PublicationType) (*models.Listing, error) {
	if actor.IsAnonymous() {
		return nil, apperror.ErrUnauthorized
	}

	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(l) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "solo el dueño puede cambiar el estado de la publicación")
	}
	if l.PublicationType != want {
		return nil, apperror.New(apperror.ErrCodeWrongType, fmt.Sprintf("la operación solo aplica a publicaciones de tipo %s", want))
	}
	if !l.IsApproved() {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "la publicación aún no está aprobada")
	}

	action := "adopt"
	switch want {
	case models.PublicationAdoption:
		if l.AdoptionState == models.AdoptionAdopted {
			return l, nil
		}
		l.AdoptionState = models.AdoptionAdopted
	case models.PublicationLost:
		if l.LostState == models.LostStateFound {
			return l, nil
		}
		l.LostState = models.LostStateFound
		action = "found"
	}
	l.UpdatedAt = s.now()

	if err := s.save(ctx, l); err != nil {
		return nil, err
	}

	s.cache.InvalidateListings()
	s.metrics.IncTransition(action)
	logger.Get().WithFields(logrus.Fields{
		"listing_id": l.ID,
		"owner_id":   actor.UserID,
		"action":     action,
	}).Info("estado de la publicación actualizado")
	return l, nil
}

// ContactOwner отправляет владельцу пропавшего питомца сообщение от посетителя.
func (s *ListingService) ContactOwner(ctx context.Context, id uuid.UUID, in ContactInput) error {
	in.Message = strings.TrimSpace(in.Message)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = validation.NormalizeEmail(in.Email)
	in.SeenAt = strings.TrimSpace(in.SeenAt)

	if err := validation.ValidateMessageContent(in.Message); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateOptionalEmail(in.Email); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	l, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !l.IsApproved() {
		return apperror.ErrListingNotFound
	}
	if l.PublicationType != models.PublicationLost {
		return apperror.New(apperror.ErrCodeWrongType, "solo se puede contactar en mascotas extraviadas")
	}

	to := s.recipient(ctx, l)
	if to == "" {
		return apperror.New(apperror.ErrCodeInvalidInput, "no hay correo de contacto disponible para esta publicación")
	}

	subject, body := contactMail(l, in)
	listingID := l.ID
	s.runner.Go(ctx, func(ctx context.Context) {
		s.deliver(ctx, listingID, to, subject, body)
	})
	return nil
}

// Stats считает пристроенных и найденных питомцев среди одобренных публикаций.
func (s *ListingService) Stats(ctx context.Context) (*models.ListingStats, error) {
	if s.cache == nil {
		return s.computeStats(ctx)
	}
	v, err := s.cache.GetOrSet(ctx, StatsCacheKey, DefaultStatsTTL, func(ctx context.Context) (interface{}, error) {
		return s.computeStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	stats := *v.(*models.ListingStats)
	return &stats, nil
}

func (s *ListingService) computeStats(ctx context.Context) (*models.ListingStats, error) {
	count := func(t models.PublicationType, includeTerminal bool) (int, error) {
		n, err := s.repo.Count(ctx, repository.ListingFilter{
			PublicationType: t,
			ModerationState: models.ModerationApproved,
			IncludeAdopted:  includeTerminal,
			IncludeFound:    includeTerminal,
		})
		if err != nil {
			return 0, apperror.Internal(fmt.Errorf("listing service: stats: %w", err))
		}
		return n, nil
	}

	totalAdoption, err := count(models.PublicationAdoption, true)
	if err != nil {
		return nil, err
	}
	available, err := count(models.PublicationAdoption, false)
	if err != nil {
		return nil, err
	}
	totalLost, err := count(models.PublicationLost, true)
	if err != nil {
		return nil, err
	}
	stillLost, err := count(models.PublicationLost, false)
	if err != nil {
		return nil, err
	}

	return &models.ListingStats{
		AdoptedCount:  totalAdoption - available,
		ReunitedCount: totalLost - stillLost,
		TotalAdoption: totalAdoption,
		TotalLost:     totalLost,
	}, nil
}

func (s *ListingService) load(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, apperror.Internal(fmt.Errorf("listing service: get: %w", err))
	}
	return l, nil
}

func (s *ListingService) save(ctx context.Context, l *models.Listing) error {
	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return apperror.ErrListingNotFound
		}
		return apperror.Internal(fmt.Errorf("listing service: update: %w", err))
	}
	return nil
}

// recipient возвращает email контакта публикации, иначе email владельца.
func (s *ListingService) recipient(ctx context.Context, l *models.Listing) string {
	if l.Contact.Email != "" {
		return l.Contact.Email
	}
	if l.OwnerID == nil || s.users == nil {
		return ""
	}
	owner, err := s.users.GetByID(ctx, *l.OwnerID)
	if err != nil {
		logger.Get().WithFields(logrus.Fields{
			"listing_id": l.ID,
			"owner_id":   *l.OwnerID,
			"error":      err,
		}).Warn("no se pudo obtener el correo del dueño")
		return ""
	}
	return owner.Email
}

// notifyRejected в фоне находит адрес и отправляет письмо об отклонении.
func (s *ListingService) notifyRejected(ctx context.Context, l *models.Listing) {
	snapshot := *l
	subject, body := rejectionMail(&snapshot)
	s.runner.Go(ctx, func(ctx context.Context) {
		to := s.recipient(ctx, &snapshot)
		if to == "" {
			logger.Get().WithField("listing_id", snapshot.ID).Warn("sin correo de destino, no se envía notificación")
			return
		}
		s.deliver(ctx, snapshot.ID, to, subject, body)
	})
}

// deliver отправляет письмо. Ошибка только логируется и учитывается в метриках.
func (s *ListingService) deliver(ctx context.Context, listingID uuid.UUID, to, subject, body string) {
	if s.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.mailTTL)
	defer cancel()

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.metrics.IncNotificationFailed("mail")
		logger.Get().WithFields(logrus.Fields{
			"listing_id": listingID,
			"to":         to,
			"error":      err,
		}).Error("error enviando correo")
		return
	}
	s.metrics.IncNotificationSent("mail")
}

// publish отправляет событие владельцу, если он есть.
func (s *ListingService) publish(ctx context.Context, l *models.Listing, event string) {
	if s.events == nil || l.OwnerID == nil {
		return
	}

	owner := *l.OwnerID
	listingID := l.ID
	data := map[string]any{
		"listing_id":       l.ID,
		"name":             l.Name,
		"moderation_state": l.ModerationState,
		"rejection_reason": l.RejectionReason,
	}
	s.runner.Go(ctx, func(context.Context) {
		if err := s.events.BroadcastToUser(owner, event, data); err != nil {
			s.metrics.IncNotificationFailed("ws")
			logger.Get().WithFields(logrus.Fields{
				"listing_id": listingID,
				"user_id":    owner,
				"error":      err,
			}).Warn("no se pudo enviar el evento")
			return
		}
		s.metrics.IncNotificationSent("ws")
	})
}
