package sportsdb

import "time"

const (
	providerName       = "sportsdb"
	defaultBaseURL     = "https://www.thesportsdb.com/api/v1/json"
	defaultHTTPTimeout = 30 * time.Second
	errorBodyLimit     = 512
)
