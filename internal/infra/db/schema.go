package db

import _ "embed"

// Schema is the full DDL. Integration tests apply it to a fresh container;
// deployments run it through the usual migration tooling.
//
//go:embed schema.sql
var Schema string
