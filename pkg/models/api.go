package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps collection endpoints. Success is false when the
// underlying query failed, in which case Data is an empty list.
type ListResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// CreateContactRequest represents a request to add a contact
type CreateContactRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	LeadStatus string `json:"lead_status"`
	Source     string `json:"source"`
	Notes      string `json:"notes"`
}

// UpdateContactRequest represents a partial contact update
type UpdateContactRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	LeadStatus *string `json:"lead_status,omitempty"`
	Source     *string `json:"source,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// CreatePropertyRequest represents a request to add a property
type CreatePropertyRequest struct {
	Building     string  `json:"building" validate:"required"`
	Unit         string  `json:"unit" validate:"required"`
	Area         string  `json:"area"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0"`
	SizeSqft     float64 `json:"size_sqft" validate:"gte=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	Amenities    string  `json:"amenities"`
}

// UpdatePropertyRequest represents a partial property update
type UpdatePropertyRequest struct {
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      *string  `json:"status,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amenities   *string  `json:"amenities,omitempty"`
}

// CreateTaskRequest represents a request to add a task
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	AssignedTo  string `json:"assigned_to"`
	ContactID   *int64 `json:"contact_id,omitempty"`
	PropertyID  *int64 `json:"property_id,omitempty"`
	DueDate     string `json:"due_date"`
}

// CreateDealRequest represents a request to open a deal
type CreateDealRequest struct {
	ContactID  int64   `json:"contact_id" validate:"required,gt=0"`
	PropertyID int64   `json:"property_id" validate:"required,gt=0"`
	DealType   string  `json:"deal_type" validate:"required"`
	DealValue  float64 `json:"deal_value" validate:"gte=0"`
	Commission float64 `json:"commission" validate:"gte=0"`
	Notes      string  `json:"notes"`
}

// UpdateDealStatusRequest moves a deal through the pipeline
type UpdateDealStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LinkRequest relates a contact to a property
type LinkRequest struct {
	ContactID        int64  `json:"contact_id" validate:"required,gt=0"`
	PropertyID       int64  `json:"property_id" validate:"required,gt=0"`
	RelationshipType string `json:"relationship_type" validate:"required"`
}

// ScheduleViewingRequest books a viewing for a contact
type ScheduleViewingRequest struct {
	ContactID   int64  `json:"contact_id" validate:"required,gt=0"`
	PropertyID  int64  `json:"property_id" validate:"required,gt=0"`
	ViewingDate string `json:"viewing_date" validate:"required"`
}

// ChatRequest is a free-text message for the assistant
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Response string `json:"response"`
	Route    string `json:"route"`
}

// TagsRequest replaces the tags of a knowledge document
type TagsRequest struct {
	Tags []string `json:"tags"`
}

// TokenResponse carries a signed API token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// EmailRequest drafts or sends a templated follow-up email
type EmailRequest struct {
	ContactID int64  `json:"contact_id" validate:"required,gt=0"`
	Template  string `json:"template"`
}

// ComposeEmailRequest asks the language model for a follow-up email
type ComposeEmailRequest struct {
	ContactID   int64  `json:"contact_id" validate:"required,gt=0"`
	Interaction string `json:"interaction"`
}

// ValidatePhoneRequest represents a phone validation request
type ValidatePhoneRequest struct {
	Phone  string `json:"phone" validate:"required"`
	Region string `json:"region,omitempty"`
}
