package models

// Lead statuses recognised by the scoring engine
const (
	StatusHot  = "Hot"
	StatusWarm = "Warm"
	StatusCold = "Cold"
)

// Relationship types between a contact and a property
const (
	RelationshipOwner            = "Owner"
	RelationshipInterested       = "Interested"
	RelationshipViewingScheduled = "Viewing Scheduled"
	RelationshipPreviousOwner    = "Previous Owner"
)

// Task statuses
const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskScheduled  = "Scheduled"
	TaskCompleted  = "Completed"
)

// Contact is a person tracked by the agent. Dates are ISO-8601 strings as
// stored; an empty LastContactedDate means the contact was never reached.
type Contact struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	LeadStatus        string `json:"lead_status"`
	Source            string `json:"source"`
	Notes             string `json:"notes"`
	LastContactedDate string `json:"last_contacted_date,omitempty"`
	CreatedDate       string `json:"created_date"`
	UpdatedDate       string `json:"updated_date,omitempty"`
}

// Property is a listed or tracked unit
type Property struct {
	ID           int64   `json:"id"`
	Building     string  `json:"building"`
	Unit         string  `json:"unit"`
	Area         string  `json:"area"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	SizeSqft     float64 `json:"size_sqft"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	Amenities    string  `json:"amenities"`
	CreatedDate  string  `json:"created_date"`
	UpdatedDate  string  `json:"updated_date,omitempty"`
}

// Label renders a property the way the agent refers to it
func (p Property) Label() string {
	return p.Building + " Unit " + p.Unit
}

// Deal links a contact to a property transaction
type Deal struct {
	ID          int64   `json:"id"`
	ContactID   int64   `json:"contact_id"`
	PropertyID  int64   `json:"property_id"`
	DealType    string  `json:"deal_type"`
	Status      string  `json:"status"`
	DealValue   float64 `json:"deal_value"`
	Commission  float64 `json:"commission"`
	CreatedDate string  `json:"created_date"`
	ClosingDate string  `json:"closing_date,omitempty"`
	Notes       string  `json:"notes"`
}

// Task is an agent to-do item
type Task struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	AssignedTo    string `json:"assigned_to,omitempty"`
	ContactID     *int64 `json:"contact_id,omitempty"`
	PropertyID    *int64 `json:"property_id,omitempty"`
	CreatedDate   string `json:"created_date"`
	DueDate       string `json:"due_date,omitempty"`
	CompletedDate string `json:"completed_date,omitempty"`
}

// ContactProperty relates a contact to a property
type ContactProperty struct {
	ID               int64  `json:"id"`
	ContactID        int64  `json:"contact_id"`
	PropertyID       int64  `json:"property_id"`
	RelationshipType string `json:"relationship_type"`
	CreatedDate      string `json:"created_date"`
}

// ScoreRecord is the persisted result of a lead scoring run
type ScoreRecord struct {
	ContactID      int64              `json:"contact_id"`
	Score          float64            `json:"score"`
	Breakdown      map[string]float64 `json:"breakdown"`
	LastCalculated string             `json:"last_calculated"`
}

// EmailTemplate is a stored message with {name}, {property} and {status} placeholders
type EmailTemplate struct {
	ID           int64  `json:"id"`
	TemplateName string `json:"template_name"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	TemplateType string `json:"template_type"`
}

// KnowledgeDocument is an ingested file with its extracted entities
type KnowledgeDocument struct {
	ID          int64          `json:"id"`
	ContentType string         `json:"content_type"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	SourceFile  string         `json:"source_file"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tags        []string       `json:"tags"`
	CreatedDate string         `json:"created_date"`
	UpdatedDate string         `json:"updated_date,omitempty"`
}
