// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by timestamped tables
//   - user.go: login accounts
//   - settore.go, event.go, event_file.go: the event catalogue
package models
