// Package demo generates deterministic demonstration CRM records.
package demo

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// GeneratorConfig configures demo data generation
type GeneratorConfig struct {
	Seed       int64
	Contacts   int
	Properties int
	Deals      int
	Tasks      int
	// NotesChance is the probability a contact carries intent notes
	NotesChance float64
	// ContactedChance is the probability a contact has a last-contacted date
	ContactedChance float64
}

// DefaultGeneratorConfig returns a small, realistic dataset size
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:            42,
		Contacts:        25,
		Properties:      15,
		Deals:           8,
		Tasks:           20,
		NotesChance:     0.7,
		ContactedChance: 0.8,
	}
}

// Dubai areas and their typical buildings
var AreaBuildings = map[string][]string{
	"Dubai Marina":   {"Marina Gate", "Cayan Tower", "Princess Tower", "Marina Promenade"},
	"Downtown Dubai": {"Burj Vista", "The Address Residences", "Boulevard Point", "29 Boulevard"},
	"Palm Jumeirah":  {"Palm Tower", "Shoreline Apartments", "Oceana", "Tiara Residences"},
	"Business Bay":   {"Executive Towers", "Damac Maison", "Bay Square", "Vera Residences"},
	"JVC":            {"Bloom Towers", "Belgravia", "Park Corner", "Oxford Residence"},
}

var (
	propertyTypes  = []string{"Apartment", "Villa", "Townhouse", "Penthouse", "Office"}
	leadSources    = []string{"Referral", "Previous Client", "Social Media", "Website", "Walk-in", "Cold Call", "Property Finder"}
	leadStatuses   = []string{models.StatusHot, models.StatusWarm, models.StatusCold}
	uaeMobile      = []string{"50", "52", "54", "55", "56", "58"}
	noteFragments  = []string{"cash buyer", "pre-approved", "looking for", "budget around 2M", "interested in", "timeline is flexible", "urgent", "maybe later", "postpone until Q3", "ready to buy"}
	taskTemplates  = []string{"Call %s about the offer", "Send CMA to %s", "Follow up with %s", "Prepare documents for %s", "Property viewing with %s"}
	taskPriorities = []string{"High", "Medium", "Low"}
	dealTypes      = []string{"Sale", "Rental"}
)

// Dataset is a generated set of records not yet persisted
type Dataset struct {
	Contacts   []models.Contact
	Properties []models.Property
	Deals      []models.Deal
	Tasks      []models.Task
}

// Generator produces deterministic demo records for a seed
type Generator struct {
	cfg   GeneratorConfig
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator creates a generator anchored at now
func NewGenerator(cfg GeneratorConfig, now time.Time) *Generator {
	return &Generator{cfg: cfg, faker: gofakeit.New(cfg.Seed), now: now}
}

func (g *Generator) pastDate(maxDays int) string {
	t := g.faker.DateRange(g.now.AddDate(0, 0, -maxDays), g.now)
	return models.FormatTimestamp(t)
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+971%s%07d", g.faker.RandomString(uaeMobile), g.faker.Number(0, 9999999))
}

// Contact generates one contact
func (g *Generator) Contact() models.Contact {
	f := g.faker
	name := f.Name()
	c := models.Contact{
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.ae",
		Phone:       g.phone(),
		LeadStatus:  f.RandomString(leadStatuses),
		Source:      f.RandomString(leadSources),
		CreatedDate: g.pastDate(180),
	}
	if f.Float64Range(0, 1) < g.cfg.NotesChance {
		parts := []string{f.RandomString(noteFragments), f.RandomString(noteFragments)}
		c.Notes = fmt.Sprintf("%s; %s %s in %s", parts[0], parts[1], strings.ToLower(f.RandomString(propertyTypes)), g.area())
	}
	if f.Float64Range(0, 1) < g.cfg.ContactedChance {
		c.LastContactedDate = g.pastDate(60)
	}
	return c
}

var areaNames = slices.Sorted(maps.Keys(AreaBuildings))

func (g *Generator) area() string {
	return g.faker.RandomString(areaNames)
}

// Property generates one property; unit numbers embed index to stay unique
func (g *Generator) Property(index int) models.Property {
	f := g.faker
	area := g.area()
	kind := f.RandomString(propertyTypes)
	beds := f.Number(0, 5)
	size := float64(450 + beds*400 + f.Number(0, 600))
	status := "Available"
	if f.Float64Range(0, 1) < 0.2 {
		status = "Sold"
	}
	return models.Property{
		Building:     f.RandomString(AreaBuildings[area]),
		Unit:         fmt.Sprintf("%d%02d", f.Number(1, 60), index%100),
		Area:         area,
		PropertyType: kind,
		Bedrooms:     beds,
		Bathrooms:    max(1, beds),
		SizeSqft:     size,
		Price:        float64(int(size*f.Float64Range(1200, 3200))/1000) * 1000,
		Status:       status,
		Description:  f.Sentence(10),
		Amenities:    "Pool, Gym, Parking",
	}
}

// Generate produces a full dataset. Deals and tasks reference contacts and
// properties by their position (1-based), matching insertion order into an
// empty database.
func (g *Generator) Generate() Dataset {
	var ds Dataset
	for i := 0; i < g.cfg.Contacts; i++ {
		ds.Contacts = append(ds.Contacts, g.Contact())
	}
	for i := 0; i < g.cfg.Properties; i++ {
		ds.Properties = append(ds.Properties, g.Property(i))
	}
	if len(ds.Contacts) == 0 || len(ds.Properties) == 0 {
		return ds
	}

	f := g.faker
	for i := 0; i < g.cfg.Deals; i++ {
		pi := f.Number(0, len(ds.Properties)-1)
		p := ds.Properties[pi]
		d := models.Deal{
			ContactID:   int64(f.Number(1, len(ds.Contacts))),
			PropertyID:  int64(pi + 1),
			DealType:    f.RandomString(dealTypes),
			Status:      "Active",
			DealValue:   p.Price,
			Commission:  p.Price * 0.02,
			CreatedDate: g.pastDate(120),
		}
		if f.Float64Range(0, 1) < 0.3 {
			d.Status = store.DealStatusClosed
			d.ClosingDate = g.pastDate(45)
		}
		ds.Deals = append(ds.Deals, d)
	}
	for i := 0; i < g.cfg.Tasks; i++ {
		cid := int64(f.Number(1, len(ds.Contacts)))
		pid := int64(f.Number(1, len(ds.Properties)))
		due := g.now.AddDate(0, 0, f.Number(-10, 14))
		ds.Tasks = append(ds.Tasks, models.Task{
			Title:      fmt.Sprintf(f.RandomString(taskTemplates), ds.Contacts[cid-1].Name),
			Status:     models.TaskPending,
			Priority:   f.RandomString(taskPriorities),
			ContactID:  &cid,
			PropertyID: &pid,
			DueDate:    models.FormatTimestamp(due),
		})
	}
	return ds
}

// Populate generates a dataset and writes it through st. Deal and task
// references are remapped to the ids assigned on insert.
func Populate(ctx context.Context, st *store.Store, cfg GeneratorConfig) (*Dataset, error) {
	ds := NewGenerator(cfg, st.Now()).Generate()

	contactIDs := make([]int64, len(ds.Contacts))
	for i := range ds.Contacts {
		if err := st.CreateContact(ctx, &ds.Contacts[i]); err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
		contactIDs[i] = ds.Contacts[i].ID
	}
	propertyIDs := make([]int64, len(ds.Properties))
	for i := range ds.Properties {
		p := &ds.Properties[i]
		if existing, err := st.FindPropertyByUnit(ctx, p.Building, p.Unit); err == nil {
			*p = *existing
		} else if err := st.CreateProperty(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create property: %w", err)
		}
		propertyIDs[i] = p.ID
	}
	for i := range ds.Deals {
		d := &ds.Deals[i]
		d.ContactID = contactIDs[d.ContactID-1]
		d.PropertyID = propertyIDs[d.PropertyID-1]
		if err := st.CreateDeal(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to create deal: %w", err)
		}
	}
	for i := range ds.Tasks {
		t := &ds.Tasks[i]
		cid, pid := contactIDs[*t.ContactID-1], propertyIDs[*t.PropertyID-1]
		t.ContactID, t.PropertyID = &cid, &pid
		if err := st.CreateTask(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
	}
	return &ds, nil
}
