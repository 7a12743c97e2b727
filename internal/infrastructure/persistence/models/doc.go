// Package models contains the GORM persistence models of the storefront.
//
// Domain types stay free of ORM tags; every model here maps one table and
// offers ToDomain / FromDomain converters used by the repositories.
// The same models back both PostgreSQL (through migrations/*.sql) and the
// SQLite databases used by tests (through AutoMigrate), so column types are
// limited to what both engines accept.
package models
