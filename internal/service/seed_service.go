package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

// Демо-пароль всех сгенерированных аккаунтов.
const SeedPassword = "Patita123"

// SeedUserRepository нужен сидеру для создания пользователей.
type SeedUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SeedAccount описывает созданный демо-аккаунт.
type SeedAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SeedResult итог генерации.
type SeedResult struct {
	Accounts    []SeedAccount `json:"accounts"`
	Listings    int           `json:"listings"`
	Foundations int           `json:"foundations"`
}

// SeedService генерирует демо-данные для локальной разработки.
type SeedService struct {
	users       SeedUserRepository
	listings    ListingRepository
	foundations FoundationRepository
	rnd         *rand.Rand
	now         func() time.Time
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(users SeedUserRepository, listings ListingRepository, foundations FoundationRepository) *SeedService {
	return &SeedService{
		users:       users,
		listings:    listings,
		foundations: foundations,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

var (
	seedFirstNames = []string{"Camila", "Valentina", "Francisca", "Josefa", "Matías", "Benjamín", "Vicente", "Tomás", "Catalina", "Joaquín"}
	seedLastNames  = []string{"González", "Muñoz", "Rojas", "Díaz", "Pérez", "Soto", "Contreras", "Silva", "Martínez", "Sepúlveda"}
	seedPetNames   = []string{"Firulais", "Luna", "Toby", "Canela", "Rocky", "Nala", "Max", "Kira", "Bruno", "Mota"}
	seedSpecies    = []string{"perro", "gato"}
	seedBreeds     = []string{"Quiltro", "Labrador", "Poodle", "Siamés", "Pastor alemán", "Mestizo"}
	seedSizes      = []string{"pequeño", "mediano", "grande"}
	seedAges       = []string{"cachorro", "2 años", "5 años", "adulto mayor"}
	seedPlaces     = []struct{ region, commune string }{
		{"Coquimbo", "La Serena"},
		{"Coquimbo", "Coquimbo"},
		{"Valparaíso", "Viña del Mar"},
		{"Metropolitana", "Santiago"},
		{"Biobío", "Concepción"},
	}
	seedDescriptions = []string{
		"Muy cariñoso y juguetón, se lleva bien con niños.",
		"Tranquilo, ideal para departamento.",
		"Se perdió cerca de la plaza, lleva collar rojo.",
		"Responde a su nombre, es algo tímido con extraños.",
	}
)

// SeedData создаёт numUsers пользователей и numListings публикаций в разных состояниях.
func (s *SeedService) SeedData(ctx context.Context, numUsers, numListings int) (*SeedResult, error) {
	if numUsers < 1 {
		numUsers = 1
	}
	if numListings < 0 {
		numListings = 0
	}

	users, accounts, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to generate users: %w", err)
	}

	if err := s.generateListings(ctx, users, numListings); err != nil {
		return nil, fmt.Errorf("seed service: failed to generate listings: %w", err)
	}

	foundations, err := s.generateFoundations(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to generate foundations: %w", err)
	}

	return &SeedResult{Accounts: accounts, Listings: numListings, Foundations: foundations}, nil
}

func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, []SeedAccount, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	users := make([]*models.User, 0, count)
	accounts := make([]SeedAccount, 0, count)
	for i := 0; i < count; i++ {
		first := seedFirstNames[s.rnd.Intn(len(seedFirstNames))]
		last := seedLastNames[s.rnd.Intn(len(seedLastNames))]
		email := fmt.Sprintf("demo%d.%d@pata.cl", i+1, s.rnd.Intn(100000))

		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, err
		}

		place := seedPlaces[s.rnd.Intn(len(seedPlaces))]
		now := s.now()
		user := &models.User{
			ID:           uuid.New(),
			Name:         first + " " + last,
			Email:        email,
			PasswordHash: string(passwordHash),
			NationalID:   s.randomRUT(),
			Phone:        fmt.Sprintf("+56 9 %04d %04d", s.rnd.Intn(10000), s.rnd.Intn(10000)),
			Region:       place.region,
			Commune:      place.commune,
			Role:         models.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}

		users = append(users, user)
		accounts = append(accounts, SeedAccount{Email: email, Password: SeedPassword, Name: user.Name})
	}

	return users, accounts, nil
}

// randomRUT возвращает нормализованный RUT с корректной контрольной цифрой.
func (s *SeedService) randomRUT() string {
	body := strconv.Itoa(5_000_000 + s.rnd.Intn(20_000_000))
	dv, _ := validation.RUTCheckDigit(body)
	return body + dv
}

func (s *SeedService) generateListings(ctx context.Context, users []*models.User, count int) error {
	states := []models.ModerationState{
		models.ModerationApproved,
		models.ModerationApproved,
		models.ModerationApproved,
		models.ModerationPending,
		models.ModerationRejected,
	}

	for i := 0; i < count; i++ {
		pubType := models.PublicationAdoption
		if i%2 == 1 {
			pubType = models.PublicationLost
		}
		place := seedPlaces[s.rnd.Intn(len(seedPlaces))]
		created := s.now().Add(-time.Duration(s.rnd.Intn(30*24)) * time.Hour)

		l := &models.Listing{
			ID:              uuid.New(),
			PublicationType: pubType,
			ModerationState: states[s.rnd.Intn(len(states))],
			Name:            seedPetNames[s.rnd.Intn(len(seedPetNames))],
			Species:         seedSpecies[s.rnd.Intn(len(seedSpecies))],
			Breed:           seedBreeds[s.rnd.Intn(len(seedBreeds))],
			Age:             seedAges[s.rnd.Intn(len(seedAges))],
			Size:            seedSizes[s.rnd.Intn(len(seedSizes))],
			Vaccinated:      s.rnd.Intn(2) == 0,
			Sterilized:      s.rnd.Intn(2) == 0,
			Region:          place.region,
			Commune:         place.commune,
			Description:     seedDescriptions[s.rnd.Intn(len(seedDescriptions))],
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		if l.ModerationState == models.ModerationRejected {
			l.RejectionReason = "Faltan fotos del animal"
		}

		switch pubType {
		case models.PublicationAdoption:
			l.AdoptionState = models.AdoptionAvailable
		case models.PublicationLost:
			l.LostState = models.LostStateLost
			l.Location = "Cerca de la plaza de " + place.commune
		}

		if len(users) > 0 && s.rnd.Intn(4) != 0 {
			owner := users[s.rnd.Intn(len(users))]
			l.OwnerID = &owner.ID
			l.Contact = models.Contact{Name: owner.Name, Phone: owner.Phone, Email: owner.Email}
		}

		if err := s.listings.Create(ctx, l); err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
	}
	return nil
}

func (s *SeedService) generateFoundations(ctx context.Context, users []*models.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	names := []string{"Patitas Felices", "Refugio Esperanza", "Huellitas del Norte"}
	for i, name := range names {
		owner := users[i%len(users)]
		now := s.now()
		f := &models.Foundation{
			ID:        uuid.New(),
			OwnerID:   owner.ID,
			Name:      name,
			City:      owner.Commune,
			Phone:     owner.Phone,
			Email:     owner.Email,
			About:     "Fundación dedicada al rescate y adopción responsable.",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.foundations.Create(ctx, f); err != nil {
			return i, fmt.Errorf("failed to create foundation: %w", err)
		}
	}
	return len(names), nil
}
