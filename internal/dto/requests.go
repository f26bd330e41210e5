package dto

import (
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// RegisterRequest represents the request to register an account
type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	NationalID string `json:"national_id" binding:"required,rut"`
	Phone      string `json:"phone" binding:"required"`
	Region     string `json:"region"`
	Commune    string `json:"commune"`
	Social     string `json:"social"`
}

// ToInput converts the request to the service input
func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		NationalID: r.NationalID,
		Phone:      r.Phone,
		Region:     r.Region,
		Commune:    r.Commune,
		Social:     r.Social,
	}
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ContactRequest represents listing contact data
type ContactRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Social string `json:"social"`
}

// CreateListingRequest represents the request to create a listing.
// There is no moderation field: new listings always start pending.
type CreateListingRequest struct {
	PublicationType string          `json:"publication_type" binding:"publication_type"`
	Name            string          `json:"name"`
	Species         string          `json:"species"`
	Breed           string          `json:"breed"`
	Sex             string          `json:"sex"`
	Age             string          `json:"age"`
	Size            string          `json:"size"`
	Microchip       bool            `json:"microchip"`
	Vaccinated      bool            `json:"vaccinated"`
	Dewormed        bool            `json:"dewormed"`
	Sterilized      bool            `json:"sterilized"`
	Health          string          `json:"health"`
	Region          string          `json:"region"`
	Commune         string          `json:"commune"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url"`
	Location        string          `json:"location"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	Contact         *ContactRequest `json:"contact"`
}

// ToInput converts the request to the service input
func (r CreateListingRequest) ToInput() service.CreateListingInput {
	in := service.CreateListingInput{
		PublicationType: r.PublicationType,
		Name:            r.Name,
		Species:         r.Species,
		Breed:           r.Breed,
		Sex:             r.Sex,
		Age:             r.Age,
		Size:            r.Size,
		Microchip:       r.Microchip,
		Vaccinated:      r.Vaccinated,
		Dewormed:        r.Dewormed,
		Sterilized:      r.Sterilized,
		Health:          r.Health,
		Region:          r.Region,
		Commune:         r.Commune,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		Location:        r.Location,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
	if r.Contact != nil {
		in.Contact = models.Contact{
			Name:   r.Contact.Name,
			Phone:  r.Contact.Phone,
			Email:  r.Contact.Email,
			Social: r.Contact.Social,
		}
	}
	return in
}

// RejectListingRequest represents the moderator's rejection
type RejectListingRequest struct {
	Reason string `json:"reason"`
}

// ContactOwnerRequest represents a visitor's message about a lost pet
type ContactOwnerRequest struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	SeenAt  string `json:"seen_at"`
}

// ToInput converts the request to the service input
func (r ContactOwnerRequest) ToInput() service.ContactInput {
	return service.ContactInput{
		Message: r.Message,
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		SeenAt:  r.SeenAt,
	}
}

// CreateFoundationRequest represents the request to register a foundation
type CreateFoundationRequest struct {
	Name     string `json:"name" binding:"required"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	ImageURL string `json:"image_url"`
	About    string `json:"about"`
}

// ToInput converts the request to the service input
func (r CreateFoundationRequest) ToInput() service.FoundationInput {
	return service.FoundationInput{
		Name:     r.Name,
		City:     r.City,
		Address:  r.Address,
		Phone:    r.Phone,
		Email:    r.Email,
		Website:  r.Website,
		ImageURL: r.ImageURL,
		About:    r.About,
	}
}

// SeedRequest represents the request to generate demo data
type SeedRequest struct {
	NumUsers    int `json:"num_users" form:"num_users"`
	NumListings int `json:"num_listings" form:"num_listings"`
}
