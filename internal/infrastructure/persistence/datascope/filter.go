// Package datascope provides record-level visibility filters for GORM queries.
//
// Two rules are expressed here:
//   - own scope: a grant limited to "own" records restricts rows to created_by
//   - private drafts: rows in a draft status are only visible to their creator
//
// Usage:
//
//	db.Scopes(tenant.Scope(tid), datascope.PrivateDrafts("DRAFT", viewerID), datascope.OwnedBy(ownerID))
package datascope

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnerColumn is the column holding the creating user
const OwnerColumn = "created_by"

// StatusColumn is the column holding the lifecycle status
const StatusColumn = "status"

// OwnedBy limits rows to those created by ownerID. An empty ownerID means
// the caller holds an "all" grant and no filter is applied.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == "" {
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: OwnerColumn},
			Value:  ownerID,
		})
	}
}

// PrivateDrafts hides rows in draftStatus unless viewerID created them.
// Without a viewer every draft is hidden.
func PrivateDrafts(draftStatus, viewerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		status := clause.Column{Table: clause.CurrentTable, Name: StatusColumn}
		notDraft := clause.Neq{Column: status, Value: draftStatus}
		if viewerID == "" {
			return db.Where(notDraft)
		}
		return db.Where(clause.Or(
			notDraft,
			clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: OwnerColumn}, Value: viewerID},
		))
	}
}
