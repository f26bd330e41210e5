package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
)

func TestListingFilter_Public(t *testing.T) {
	filter := listingFilter(repository.ListingFilter{
		PublicationType: models.PublicationAdoption,
		ModerationState: models.ModerationApproved,
		Region:          "Valparaíso",
	})

	assert.Equal(t, bson.D{
		{Key: "publication_type", Value: "adoption"},
		{Key: "moderation_state", Value: "approved"},
		{Key: "region", Value: "Valparaíso"},
		{Key: "adoption_state", Value: bson.D{{Key: "$ne", Value: "adopted"}}},
		{Key: "lost_state", Value: bson.D{{Key: "$ne", Value: "found"}}},
	}, filter)
}

func TestListingFilter_OwnerIncludesTerminal(t *testing.T) {
	owner := uuid.New()
	filter := listingFilter(repository.ListingFilter{OwnerID: &owner, IncludeAdopted: true, IncludeFound: true})

	assert.Equal(t, bson.D{{Key: "owner_id", Value: owner.String()}}, filter)
}

func TestListingDoc_RoundTrip(t *testing.T) {
	owner := uuid.New()
	lat, lng := -33.4, -70.6
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	in := &models.Listing{
		ID:              uuid.New(),
		PublicationType: models.PublicationLost,
		ModerationState: models.ModerationPending,
		OwnerID:         &owner,
		LostState:       models.LostStateLost,
		Name:            "Luna",
		Latitude:        &lat,
		Longitude:       &lng,
		Contact:         models.Contact{Name: "Ana", Email: "ana@pata.cl"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	doc := listingToDoc(in)
	assert.Equal(t, in.ID.String(), doc.ID)
	assert.Nil(t, doc.ReviewerID)

	out := doc.toModel()
	assert.Equal(t, *in, out)
}

func TestWrapError(t *testing.T) {
	assert.ErrorIs(t, wrapError(mongo.ErrNoDocuments, repository.ErrListingNotFound), repository.ErrListingNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, wrapError(other, repository.ErrListingNotFound))
	assert.NoError(t, wrapError(nil, repository.ErrListingNotFound))
}

func TestPageOptions_SortAndWindow(t *testing.T) {
	var opts options.FindOptions
	for _, set := range pageOptions(repository.Page{Number: 3, Size: 150}).Opts {
		require.NoError(t, set(&opts))
	}

	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(300), *opts.Skip)
	assert.Equal(t, int64(150), *opts.Limit)
}
