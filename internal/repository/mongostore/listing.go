package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

type contactDoc struct {
	Name   string `bson:"name"`
	Phone  string `bson:"phone"`
	Email  string `bson:"email"`
	Social string `bson:"social"`
}

type listingDoc struct {
	ID              string     `bson:"_id"`
	PublicationType string     `bson:"publication_type"`
	ModerationState string     `bson:"moderation_state"`
	RejectionReason string     `bson:"rejection_reason"`
	ReviewerID      *string    `bson:"reviewer_id"`
	ReviewedAt      *time.Time `bson:"reviewed_at"`
	OwnerID         *string    `bson:"owner_id"`
	AdoptionState   string     `bson:"adoption_state"`
	LostState       string     `bson:"lost_state"`

	Name        string   `bson:"name"`
	Species     string   `bson:"species"`
	Breed       string   `bson:"breed"`
	Sex         string   `bson:"sex"`
	Age         string   `bson:"age"`
	Size        string   `bson:"size"`
	Microchip   bool     `bson:"microchip"`
	Vaccinated  bool     `bson:"vaccinated"`
	Dewormed    bool     `bson:"dewormed"`
	Sterilized  bool     `bson:"sterilized"`
	Health      string   `bson:"health"`
	Region      string   `bson:"region"`
	Commune     string   `bson:"commune"`
	Description string   `bson:"description"`
	ImageURL    string   `bson:"image_url"`
	Location    string   `bson:"location"`
	Latitude    *float64 `bson:"latitude"`
	Longitude   *float64 `bson:"longitude"`

	Contact contactDoc `bson:"contact"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func listingToDoc(l *models.Listing) listingDoc {
	return listingDoc{
		ID:              idString(l.ID),
		PublicationType: string(l.PublicationType),
		ModerationState: string(l.ModerationState),
		RejectionReason: l.RejectionReason,
		ReviewerID:      optionalIDString(l.ReviewerID),
		ReviewedAt:      l.ReviewedAt,
		OwnerID:         optionalIDString(l.OwnerID),
		AdoptionState:   string(l.AdoptionState),
		LostState:       string(l.LostState),
		Name:            l.Name,
		Species:         l.Species,
		Breed:           l.Breed,
		Sex:             l.Sex,
		Age:             l.Age,
		Size:            l.Size,
		Microchip:       l.Microchip,
		Vaccinated:      l.Vaccinated,
		Dewormed:        l.Dewormed,
		Sterilized:      l.Sterilized,
		Health:          l.Health,
		Region:          l.Region,
		Commune:         l.Commune,
		Description:     l.Description,
		ImageURL:        l.ImageURL,
		Location:        l.Location,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		Contact: contactDoc{
			Name:   l.Contact.Name,
			Phone:  l.Contact.Phone,
			Email:  l.Contact.Email,
			Social: l.Contact.Social,
		},
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (d *listingDoc) toModel() models.Listing {
	return models.Listing{
		ID:              parseID(d.ID),
		PublicationType: models.PublicationType(d.PublicationType),
		ModerationState: models.ModerationState(d.ModerationState),
		RejectionReason: d.RejectionReason,
		ReviewerID:      parseOptionalID(d.ReviewerID),
		ReviewedAt:      d.ReviewedAt,
		OwnerID:         parseOptionalID(d.OwnerID),
		AdoptionState:   models.AdoptionState(d.AdoptionState),
		LostState:       models.LostState(d.LostState),
		Name:            d.Name,
		Species:         d.Species,
		Breed:           d.Breed,
		Sex:             d.Sex,
		Age:             d.Age,
		Size:            d.Size,
		Microchip:       d.Microchip,
		Vaccinated:      d.Vaccinated,
		Dewormed:        d.Dewormed,
		Sterilized:      d.Sterilized,
		Health:          d.Health,
		Region:          d.Region,
		Commune:         d.Commune,
		Description:     d.Description,
		ImageURL:        d.ImageURL,
		Location:        d.Location,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Contact: models.Contact{
			Name:   d.Contact.Name,
			Phone:  d.Contact.Phone,
			Email:  d.Contact.Email,
			Social: d.Contact.Social,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// ListingStore хранит публикации в коллекции listings.
type ListingStore struct {
	col *mongo.Collection
}

// Create сохраняет новую публикацию.
func (s *ListingStore) Create(ctx context.Context, l *models.Listing) error {
	if _, err := s.col.InsertOne(ctx, listingToDoc(l)); err != nil {
		return fmt.Errorf("mongostore: create listing: %w", wrapError(err, nil))
	}
	return nil
}

// GetByID возвращает публикацию по идентификатору.
func (s *ListingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	doc, err := findOne[listingDoc](ctx, s.col, bson.D{{Key: "_id", Value: idString(id)}}, repository.ErrListingNotFound)
	if err != nil {
		return nil, err
	}
	l := doc.toModel()
	return &l, nil
}

// Update перезаписывает документ целиком. Побеждает последняя запись.
func (s *ListingStore) Update(ctx context.Context, l *models.Listing) error {
	res, err := s.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: idString(l.ID)}}, listingToDoc(l))
	if err != nil {
		return fmt.Errorf("mongostore: update listing: %w", wrapError(err, nil))
	}
	if res.MatchedCount == 0 {
		return repository.ErrListingNotFound
	}
	return nil
}

// listingFilter строит фильтр bson с той же семантикой, что и SQL-реализация.
func listingFilter(f repository.ListingFilter) bson.D {
	filter := bson.D{}
	if f.PublicationType != "" {
		filter = append(filter, bson.E{Key: "publication_type", Value: string(f.PublicationType)})
	}
	if f.ModerationState != "" {
		filter = append(filter, bson.E{Key: "moderation_state", Value: string(f.ModerationState)})
	}
	if f.Region != "" {
		filter = append(filter, bson.E{Key: "region", Value: f.Region})
	}
	if f.Commune != "" {
		filter = append(filter, bson.E{Key: "commune", Value: f.Commune})
	}
	if f.OwnerID != nil {
		filter = append(filter, bson.E{Key: "owner_id", Value: idString(*f.OwnerID)})
	}
	if !f.IncludeAdopted {
		filter = append(filter, bson.E{Key: "adoption_state", Value: bson.D{{Key: "$ne", Value: string(models.AdoptionAdopted)}}})
	}
	if !f.IncludeFound {
		filter = append(filter, bson.E{Key: "lost_state", Value: bson.D{{Key: "$ne", Value: string(models.LostStateFound)}}})
	}
	return filter
}

// List возвращает страницу публикаций и общее количество по фильтру.
func (s *ListingStore) List(ctx context.Context, f repository.ListingFilter, page repository.Page) ([]models.Listing, int, error) {
	filter := listingFilter(f)

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("mongostore: count listings: %w", err)
	}

	docs, err := findMany[listingDoc](ctx, s.col, filter, pageOptions(page))
	if err != nil {
		return nil, 0, fmt.Errorf("mongostore: list listings: %w", err)
	}

	listings := make([]models.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toModel())
	}
	return listings, int(total), nil
}

// Count возвращает количество публикаций по фильтру.
func (s *ListingStore) Count(ctx context.Context, f repository.ListingFilter) (int, error) {
	total, err := s.col.CountDocuments(ctx, listingFilter(f))
	if err != nil {
		return 0, fmt.Errorf("mongostore: count listings: %w", err)
	}
	return int(total), nil
}
