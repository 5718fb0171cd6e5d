package postgres

import "github.com/adlio/schema"

// Migrations describes the record tables. Column names keep the camelCase
// identifiers of the existing table contract.
var Migrations = []*schema.Migration{
	{
		ID: "2023-01-10 Create record tables",
		Script: `
CREATE TABLE IF NOT EXISTS program (
	id          TEXT PRIMARY KEY,
	"createdAt" TEXT NOT NULL,
	"updatedAt" TEXT NOT NULL,
	"chainId"   TEXT
);

CREATE TABLE IF NOT EXISTS round (
	id          TEXT PRIMARY KEY,
	"createdAt" TEXT NOT NULL,
	"updatedAt" TEXT NOT NULL,
	"chainId"   TEXT
);

CREATE TABLE IF NOT EXISTS project (
	id          TEXT PRIMARY KEY,
	"createdAt" TEXT NOT NULL,
	"updatedAt" TEXT NOT NULL,
	"chainId"   TEXT
);

CREATE TABLE IF NOT EXISTS vote (
	id          TEXT PRIMARY KEY,
	"createdAt" TEXT NOT NULL,
	amount      TEXT NOT NULL,
	"from"      TEXT NOT NULL,
	"to"        TEXT NOT NULL,
	token       TEXT NOT NULL,
	version     TEXT NOT NULL,
	"projectId" TEXT,
	"chainId"   TEXT
);
`,
	},
}
