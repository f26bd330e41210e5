package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/service"
)

func listingBody(pubType string) map[string]interface{} {
	return map[string]interface{}{
		"publication_type": pubType,
		"name":             "Firulais",
		"species":          "perro",
		"region":           "Valparaíso",
		"commune":          "Viña del Mar",
		"contact":          map[string]string{"email": "dueno@pata.cl"},
	}
}

func (e *testEnv) createListing(token, pubType string) models.Listing {
	e.t.Helper()
	w := e.do(http.MethodPost, "/listings", token, listingBody(pubType))
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Listing](e.t, w)
}

func TestListingHandler_CreateAnonymousIsPending(t *testing.T) {
	env := newTestEnv(t)

	l := env.createListing("", "adoption")
	assert.Equal(t, models.ModerationPending, l.ModerationState)
	assert.Nil(t, l.OwnerID)
	assert.Equal(t, models.AdoptionAvailable, l.AdoptionState)

	// анонимная публикация не видна, пока не одобрена
	w := env.do(http.MethodGet, "/listings/"+l.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListingHandler_CreateRejectsModerationField(t *testing.T) {
	env := newTestEnv(t)

	body := listingBody("lost")
	body["moderation_state"] = "approved"
	w := env.do(http.MethodPost, "/listings", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, w))

	body = listingBody("sale")
	w = env.do(http.MethodPost, "/listings", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/listings", "", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_CreatePublicationTypeIsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		value interface{}
	}{
		{"missing", nil},
		{"empty", ""},
		{"wrong case", "Adoption"},
		{"unknown", "venta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := listingBody("")
			if tt.value == nil {
				delete(body, "publication_type")
			} else {
				body["publication_type"] = tt.value
			}
			w := env.do(http.MethodPost, "/listings", "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_INPUT", errorCode(t, w))
		})
	}
}

func TestListingHandler_ModerationFlow(t *testing.T) {
	env := newTestEnv(t)
	ownerID, ownerToken := env.tokenFor(models.RoleUser)
	_, adminToken := env.tokenFor(models.RoleAdmin)
	_, strangerToken := env.tokenFor(models.RoleUser)

	l := env.createListing(ownerToken, "adoption")
	require.NotNil(t, l.OwnerID)
	assert.Equal(t, ownerID, *l.OwnerID)

	// владелец видит свою публикацию на модерации, посторонний нет
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/listings/"+l.ID.String(), ownerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/listings/"+l.ID.String(), strangerToken, nil).Code)

	// очередь модерации доступна только администратору
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/admin/listings", ownerToken, nil).Code)
	w := env.do(http.MethodGet, "/admin/listings", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decode[service.PageResult[models.Listing]](t, w)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, l.ID, queue.Items[0].ID)

	w = env.do(http.MethodPatch, "/admin/listings/"+l.ID.String()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ModerationApproved, decode[models.Listing](t, w).ModerationState)

	w = env.do(http.MethodGet, "/listings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decode[service.PageResult[models.Listing]](t, w)
	assert.Equal(t, 1, public.Total)

	// пристроить может только владелец
	w = env.do(http.MethodPatch, "/listings/"+l.ID.String()+"/adopt", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodPatch, "/listings/"+l.ID.String()+"/found", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "WRONG_TYPE", errorCode(t, w))

	w = env.do(http.MethodPatch, "/listings/"+l.ID.String()+"/adopt", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AdoptionAdopted, decode[models.Listing](t, w).AdoptionState)

	// пристроенные скрыты из публичного списка по умолчанию
	public = decode[service.PageResult[models.Listing]](t, env.do(http.MethodGet, "/listings", "", nil))
	assert.Equal(t, 0, public.Total)
	public = decode[service.PageResult[models.Listing]](t, env.do(http.MethodGet, "/listings?include_adopted=true", "", nil))
	assert.Equal(t, 1, public.Total)

	stats := decode[models.ListingStats](t, env.do(http.MethodGet, "/listings/stats", "", nil))
	assert.Equal(t, 1, stats.AdoptedCount)
	assert.Equal(t, 1, stats.TotalAdoption)
}

func TestListingHandler_Reject(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.tokenFor(models.RoleAdmin)
	l := env.createListing("", "lost")

	w := env.do(http.MethodPatch, "/admin/listings/"+l.ID.String()+"/reject", adminToken, map[string]string{"reason": "foto poco clara"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rejected := decode[models.Listing](t, w)
	assert.Equal(t, models.ModerationRejected, rejected.ModerationState)
	assert.Equal(t, "foto poco clara", rejected.RejectionReason)

	w = env.do(http.MethodGet, "/admin/listings?state=rejected", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[service.PageResult[models.Listing]](t, w).Total)

	w = env.do(http.MethodGet, "/admin/listings?state=borrador", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_Contact(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.tokenFor(models.RoleAdmin)

	lost := env.createListing("", "lost")
	path := "/listings/" + lost.ID.String() + "/contact"
	msg := map[string]string{"message": "La vi en la plaza", "seen_at": "Plaza Sucre"}

	// на модерации писать нельзя
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, path, "", msg).Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPatch, "/admin/listings/"+lost.ID.String()+"/approve", adminToken, nil).Code)
	assert.Equal(t, http.StatusAccepted, env.do(http.MethodPost, path, "", msg).Code)

	// сообщение необязательно
	w := env.do(http.MethodPost, path, "", map[string]string{"seen_at": "Plaza Sucre"})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestListingHandler_QueryValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/listings?page=0", http.StatusBadRequest},
		{"/listings?page_size=abc", http.StatusBadRequest},
		{"/listings?type=sale", http.StatusBadRequest},
		{"/listings?owner_id=nope", http.StatusBadRequest},
		{"/listings?include_found=quizas", http.StatusBadRequest},
		{"/listings/type/lost", http.StatusOK},
		{"/listings/type/sale", http.StatusBadRequest},
		{"/listings/not-a-uuid", http.StatusBadRequest},
		{"/listings?page_size=100", http.StatusOK},
		{"/listings?page_size=101", http.StatusBadRequest},
		{"/listings?page_size=1000", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, env.do(http.MethodGet, tt.path, "", nil).Code)
		})
	}
}

func TestListingHandler_ListMine(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.tokenFor(models.RoleUser)

	env.createListing(ownerToken, "adoption")
	env.createListing(ownerToken, "lost")
	env.createListing("", "lost")

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/listings/mine", "", nil).Code)

	w := env.do(http.MethodGet, "/listings/mine", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[service.PageResult[models.Listing]](t, w)
	assert.Equal(t, 2, mine.Total)
	assert.Equal(t, models.ModerationPending, mine.Items[0].ModerationState)
}
