// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the service needs to talk to its collaborators.
type Config struct {
	// Port is the HTTP listen port.
	Port string `envconfig:"PORT" default:"8080"`

	// ProjectID and Dataset locate the BigQuery dataset holding the
	// accounts, categories, expenses and profiles tables.
	ProjectID string `envconfig:"BQ_PROJECT_ID" required:"true"`
	Dataset   string `envconfig:"BQ_DATASET" default:"spendwise"`

	// Bucket is the GCS bucket receipt uploads are stored in. Empty
	// disables receipt scanning.
	Bucket string `envconfig:"GCS_BUCKET"`

	// Model is the Gemini model used for OCR and spending insights.
	Model string `envconfig:"GENAI_MODEL" default:"gemini-2.5-flash"`

	// NotionDatabaseID enables transaction sync to Notion when set.
	// The Notion API token comes from NOTION_TOKEN.
	NotionDatabaseID string `envconfig:"NOTION_DATABASE_ID"`
	NotionToken      string `envconfig:"NOTION_TOKEN"`

	// ScanWorkers is the number of concurrent receipt scan workers.
	ScanWorkers int `envconfig:"SCAN_WORKERS" default:"2"`

	// ScanQueueSize bounds how many scans may wait before uploads block.
	ScanQueueSize int `envconfig:"SCAN_QUEUE_SIZE" default:"100"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
