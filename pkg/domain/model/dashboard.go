package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// MinPayloadMarks is the smallest allowed distance between slider marks in kg
const MinPayloadMarks = 100

// DefaultDashboardTitle is the page heading used when no config overrides it
const DefaultDashboardTitle = "SpaceX Launch Records Dashboard"

// DashboardConfig holds presentation settings of the dashboard
type DashboardConfig struct {
	Title        string         `yaml:"title"`
	DefaultSite  types.SiteName `yaml:"default_site,omitempty"`
	PayloadStep  float64        `yaml:"payload_step,omitempty"`
	PayloadMarks float64        `yaml:"payload_marks,omitempty"` // Distance between slider marks in kg
}

// DefaultDashboardConfig returns the built-in settings
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Title:        DefaultDashboardTitle,
		DefaultSite:  AllSites,
		PayloadStep:  DefaultPayloadStep,
		PayloadMarks: 2500,
	}
}

// ApplyDefaults fills unset fields with built-in values
func (c *DashboardConfig) ApplyDefaults() {
	def := DefaultDashboardConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.DefaultSite == "" {
		c.DefaultSite = def.DefaultSite
	}
	if c.PayloadStep == 0 {
		c.PayloadStep = def.PayloadStep
	}
	if c.PayloadMarks == 0 {
		c.PayloadMarks = def.PayloadMarks
	}
}

// Validate validates the dashboard configuration
func (c *DashboardConfig) Validate() error {
	if c.PayloadStep < 0 {
		return goerr.New("payload step must not be negative",
			goerr.V("payload_step", c.PayloadStep))
	}
	if c.PayloadMarks < MinPayloadMarks {
		return goerr.New("payload marks interval is too small",
			goerr.V("payload_marks", c.PayloadMarks),
			goerr.V("min", MinPayloadMarks))
	}
	return nil
}

// SiteOption is one entry of the site selector
type SiteOption struct {
	Label string         `json:"label"`
	Value types.SiteName `json:"value"`
}

// PayloadSlider describes the payload range control
type PayloadSlider struct {
	Min   float64        `json:"min"`
	Max   float64        `json:"max"`
	Step  float64        `json:"step"`
	Value PayloadRange   `json:"value"`
	Marks map[int]string `json:"marks"`
}

// DashboardOptions is everything the page needs to build its controls
type DashboardOptions struct {
	Title         string         `json:"title"`
	Sites         []SiteOption   `json:"sites"`
	DefaultSite   types.SiteName `json:"default_site"`
	PayloadSlider PayloadSlider  `json:"payload_slider"`
	RecordCount   int            `json:"record_count"`
}
