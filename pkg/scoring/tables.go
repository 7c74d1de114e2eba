package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/realtyaura/aura/pkg/models"
)

// StatusTable maps each lead status to a number. Unknown applies to any
// status outside Hot/Warm/Cold.
type StatusTable struct {
	Hot     float64 `yaml:"hot"`
	Warm    float64 `yaml:"warm"`
	Cold    float64 `yaml:"cold"`
	Unknown float64 `yaml:"unknown"`
}

// Lookup returns the value for status
func (t StatusTable) Lookup(status string) float64 {
	switch status {
	case models.StatusHot:
		return t.Hot
	case models.StatusWarm:
		return t.Warm
	case models.StatusCold:
		return t.Cold
	default:
		return t.Unknown
	}
}

// SourceTable maps free-text lead sources to a number
type SourceTable struct {
	Values  map[string]float64 `yaml:"values"`
	Unknown float64            `yaml:"unknown"`
}

// Lookup returns the value for an exact source match, or Unknown
func (t SourceTable) Lookup(source string) float64 {
	if v, ok := t.Values[source]; ok {
		return v
	}
	return t.Unknown
}

// Step is one breakpoint of a step function over elapsed days
type Step struct {
	MaxDays int     `yaml:"max_days"`
	Value   float64 `yaml:"value"`
}

// StepTable is a step function: the first step whose MaxDays is at least
// the elapsed days wins, otherwise Beyond.
type StepTable struct {
	Steps  []Step  `yaml:"steps"`
	Beyond float64 `yaml:"beyond"`
}

// At evaluates the step function
func (t StepTable) At(days int) float64 {
	for _, s := range t.Steps {
		if days <= s.MaxDays {
			return s.Value
		}
	}
	return t.Beyond
}

// Band labels scores at or above Min
type Band struct {
	Min   float64 `yaml:"min"`
	Label string  `yaml:"label"`
}

// Bands is ordered from the highest Min down; Floor labels everything below.
type Bands struct {
	Bands []Band `yaml:"bands"`
	Floor string `yaml:"floor"`
}

// Label returns the label of the first band v reaches
func (b Bands) Label(v float64) string {
	for _, band := range b.Bands {
		if v >= band.Min {
			return band.Label
		}
	}
	return b.Floor
}

// KeywordSet adds Points once for every keyword present
type KeywordSet struct {
	Keywords []string `yaml:"keywords"`
	Points   float64  `yaml:"points"`
}

// Weights of the five lead-scoring factors
type Weights struct {
	LeadStatus float64 `yaml:"lead_status"`
	Source     float64 `yaml:"source"`
	Recency    float64 `yaml:"recency"`
	Engagement float64 `yaml:"engagement"`
	Intent     float64 `yaml:"intent"`
}

func (w Weights) sum() float64 {
	return w.LeadStatus + w.Source + w.Recency + w.Engagement + w.Intent
}

// LeadTables configure lead scoring
type LeadTables struct {
	Weights Weights     `yaml:"weights"`
	Status  StatusTable `yaml:"status"`
	Source  SourceTable `yaml:"source"`

	Recency        StepTable `yaml:"recency"`
	RecencyUnknown float64   `yaml:"recency_unknown"`

	InterestPoints float64 `yaml:"interest_points"`
	TaskPoints     float64 `yaml:"task_points"`

	IntentBase  float64    `yaml:"intent_base"`
	IntentEmpty float64    `yaml:"intent_empty"`
	HighIntent  KeywordSet `yaml:"high_intent"`
	MedIntent   KeywordSet `yaml:"medium_intent"`
	NegIntent   KeywordSet `yaml:"negative_intent"`

	Tiers Bands `yaml:"tiers"`
}

// FollowUpTables configure follow-up scheduling
type FollowUpTables struct {
	Intervals    StatusTable `yaml:"intervals"`
	Base         StatusTable `yaml:"base"`
	PointsPerDay float64     `yaml:"points_per_day"`
	UrgencyCap   float64     `yaml:"urgency_cap"`
}

// MatchTables configure buyer matching
type MatchTables struct {
	Base            StatusTable `yaml:"base"`
	TypeBonus       float64     `yaml:"type_bonus"`
	AreaBonus       float64     `yaml:"area_bonus"`
	UrgencyBonus    float64     `yaml:"urgency_bonus"`
	UrgencyKeywords []string    `yaml:"urgency_keywords"`
}

// DealTables configure deal-closing probability
type DealTables struct {
	Base           float64     `yaml:"base"`
	Status         StatusTable `yaml:"status"`
	Source         SourceTable `yaml:"source"`
	Age            StepTable   `yaml:"age"`
	Contact        StepTable   `yaml:"contact"`
	ContactMissing float64     `yaml:"contact_missing"`
	Confidence     Bands       `yaml:"confidence"`
}

// Tables holds every constant the engine uses
type Tables struct {
	Lead     LeadTables     `yaml:"lead"`
	FollowUp FollowUpTables `yaml:"follow_up"`
	Match    MatchTables    `yaml:"match"`
	Deal     DealTables     `yaml:"deal"`
}

// DefaultTables returns the standard AURA scoring constants
func DefaultTables() Tables {
	return Tables{
		Lead: LeadTables{
			Weights: Weights{LeadStatus: 0.4, Source: 0.15, Recency: 0.2, Engagement: 0.15, Intent: 0.1},
			Status:  StatusTable{Hot: 100, Warm: 60, Cold: 20, Unknown: 10},
			Source: SourceTable{
				Values: map[string]float64{
					"Referral":        90,
					"Previous Client": 85,
					"Social Media":    70,
					"Website":         60,
					"Walk-in":         50,
					"Cold Call":       30,
				},
				Unknown: 40,
			},
			Recency: StepTable{
				Steps:  []Step{{1, 100}, {3, 80}, {7, 60}, {30, 40}, {90, 20}},
				Beyond: 10,
			},
			RecencyUnknown: 30,
			InterestPoints: 30,
			TaskPoints:     20,
			IntentBase:     50,
			IntentEmpty:    30,
			HighIntent: KeywordSet{
				Keywords: []string{"urgent", "asap", "ready to buy", "cash buyer", "pre-approved", "mortgage approved"},
				Points:   20,
			},
			MedIntent: KeywordSet{
				Keywords: []string{"interested", "looking for", "budget", "timeline", "viewing"},
				Points:   10,
			},
			NegIntent: KeywordSet{
				Keywords: []string{"not interested", "postpone", "delay", "maybe later"},
				Points:   -15,
			},
			Tiers: Bands{
				Bands: []Band{{80, "High"}, {60, "Medium"}, {40, "Low"}},
				Floor: "Very Low",
			},
		},
		FollowUp: FollowUpTables{
			Intervals:    StatusTable{Hot: 1, Warm: 3, Cold: 7, Unknown: 7},
			Base:         StatusTable{Hot: 100, Warm: 60, Cold: 20, Unknown: 10},
			PointsPerDay: 10,
			UrgencyCap:   50,
		},
		Match: MatchTables{
			Base:            StatusTable{Hot: 100, Warm: 70, Cold: 30, Unknown: 10},
			TypeBonus:       20,
			AreaBonus:       15,
			UrgencyBonus:    10,
			UrgencyKeywords: []string{"urgent", "asap"},
		},
		Deal: DealTables{
			Base:   50,
			Status: StatusTable{Hot: 30, Warm: 15, Cold: -20, Unknown: 0},
			Source: SourceTable{
				Values: map[string]float64{
					"Referral":        20,
					"Previous Client": 25,
					"Website":         10,
					"Walk-in":         5,
					"Cold Call":       -10,
				},
			},
			Age: StepTable{
				Steps:  []Step{{7, 10}, {30, 0}, {60, -10}},
				Beyond: -20,
			},
			Contact: StepTable{
				Steps:  []Step{{3, 15}, {7, 5}, {14, -5}},
				Beyond: -15,
			},
			ContactMissing: -10,
			Confidence: Bands{
				Bands: []Band{{80, "Very High"}, {60, "High"}, {40, "Moderate"}, {20, "Low"}},
				Floor: "Very Low",
			},
		},
	}
}

// LoadTables reads a YAML override file on top of DefaultTables and
// validates the result.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read scoring tables: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("parse scoring tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// Validate rejects tables the engine cannot evaluate consistently
func (t Tables) Validate() error {
	var errs []error

	if math.Abs(t.Lead.Weights.sum()-1.0) > 1e-9 {
		errs = append(errs, fmt.Errorf("lead weights sum to %.4f, want 1.0", t.Lead.Weights.sum()))
	}
	for name, w := range map[string]float64{
		"lead_status": t.Lead.Weights.LeadStatus,
		"source":      t.Lead.Weights.Source,
		"recency":     t.Lead.Weights.Recency,
		"engagement":  t.Lead.Weights.Engagement,
		"intent":      t.Lead.Weights.Intent,
	} {
		if w < 0 {
			errs = append(errs, fmt.Errorf("weight %s is negative", name))
		}
	}

	errs = append(errs, checkRange("lead status", t.Lead.Status, 0, 100))
	errs = append(errs, checkSteps("recency", t.Lead.Recency))
	errs = append(errs, checkSteps("deal age", t.Deal.Age))
	errs = append(errs, checkSteps("deal contact", t.Deal.Contact))
	errs = append(errs, checkBands("tiers", t.Lead.Tiers))
	errs = append(errs, checkBands("confidence", t.Deal.Confidence))

	for name, v := range map[string]float64{
		"hot": t.FollowUp.Intervals.Hot, "warm": t.FollowUp.Intervals.Warm,
		"cold": t.FollowUp.Intervals.Cold, "unknown": t.FollowUp.Intervals.Unknown,
	} {
		if v <= 0 || v != math.Trunc(v) {
			errs = append(errs, fmt.Errorf("follow-up interval %s must be a positive whole number of days", name))
		}
	}
	if t.FollowUp.UrgencyCap < 0 || t.FollowUp.PointsPerDay < 0 {
		errs = append(errs, errors.New("follow-up urgency must not be negative"))
	}

	for _, set := range []KeywordSet{t.Lead.HighIntent, t.Lead.MedIntent, t.Lead.NegIntent} {
		for _, k := range set.Keywords {
			if strings.TrimSpace(k) == "" {
				errs = append(errs, errors.New("intent keywords must not be blank"))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid scoring tables: %w", err)
	}
	return nil
}

func checkRange(name string, t StatusTable, lo, hi float64) error {
	for _, v := range []float64{t.Hot, t.Warm, t.Cold, t.Unknown} {
		if v < lo || v > hi {
			return fmt.Errorf("%s value %.1f outside [%.0f,%.0f]", name, v, lo, hi)
		}
	}
	return nil
}

func checkSteps(name string, t StepTable) error {
	prevDays := math.MinInt
	prevValue := math.Inf(1)
	for _, s := range t.Steps {
		if s.MaxDays <= prevDays {
			return fmt.Errorf("%s breakpoints must be strictly ascending", name)
		}
		if s.Value > prevValue {
			return fmt.Errorf("%s values must not increase with elapsed days", name)
		}
		prevDays, prevValue = s.MaxDays, s.Value
	}
	if t.Beyond > prevValue {
		return fmt.Errorf("%s beyond value must not exceed the last step", name)
	}
	return nil
}

func checkBands(name string, b Bands) error {
	prev := math.Inf(1)
	for _, band := range b.Bands {
		if band.Min >= prev {
			return fmt.Errorf("%s must be ordered from highest to lowest", name)
		}
		if band.Label == "" {
			return fmt.Errorf("%s has an unlabeled band", name)
		}
		prev = band.Min
	}
	if b.Floor == "" {
		return fmt.Errorf("%s floor label is empty", name)
	}
	return nil
}
