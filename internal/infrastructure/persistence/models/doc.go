// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; each model converts to and from its
// aggregate with ToDomain and FromDomain. Models loaded from storage mark
// their aggregate as persisted so repositories can tell inserts from updates.
package models
