package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrInvalidSelection = goerr.New("invalid selection")
	ErrSessionNotFound  = goerr.New("session not found")
)

// ErrTagDataLoad marks errors raised while loading the launch dataset
// (missing or unreadable file, missing required column, malformed row)
var ErrTagDataLoad = goerr.NewTag("data_load")
