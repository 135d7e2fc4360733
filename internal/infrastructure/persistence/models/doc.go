// Package models contains GORM persistence models. Domain entities carry no
// ORM tags; each model converts to and from its entity with ToDomain and
// FromDomain, and repositories only ever hand entities back to callers.
//
// Files follow the bounded contexts:
//   - catalog.go, partner.go, identity.go: directory records the engine reads
//   - stock.go: rep balances and the stock ledger
//   - report.go: daily reports, their visits, and samples
//   - visitplan.go: weekly visit plans
package models
