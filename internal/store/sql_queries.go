// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// Query modifier keys recognized by collection reads and deletes.
const (
	modifierIDs         = "ids"
	modifierPredecessor = "predecessorid"
	modifierParent      = "parentid"
	modifierOlder       = "older"
	modifierNewer       = "newer"
	modifierIndexAbove  = "index_above"
	modifierIndexBelow  = "index_below"
	modifierSort        = "sort"
	modifierLimit       = "limit"
	modifierOffset      = "offset"

	sortOldest = "oldest"
	sortNewest = "newest"
	sortIndex  = "index"
)

// modifierConditions translates selection modifiers into WHERE conditions.
// The range modifiers are mutually exclusive: the first present one wins,
// evaluated in the order older, newer, index_above, index_below.
func modifierConditions(m urlparser.Modifiers) []sq.Sqlizer {
	var conditions []sq.Sqlizer

	if m.Has(modifierIDs) {
		conditions = append(conditions, sq.Eq{"name": m.List(modifierIDs)})
	}
	if m.Has(modifierPredecessor) {
		conditions = append(conditions, sq.Eq{"predecessorid": m.Get(modifierPredecessor)})
	}
	if m.Has(modifierParent) {
		conditions = append(conditions, sq.Eq{"parentid": m.Get(modifierParent)})
	}

	// malformed numeric values degrade to zero, matching lenient clients
	switch {
	case m.Has(modifierOlder):
		ts, _ := utils.ParseTimestamp(m.Get(modifierOlder))
		conditions = append(conditions, sq.LtOrEq{"modified": ts})
	case m.Has(modifierNewer):
		ts, _ := utils.ParseTimestamp(m.Get(modifierNewer))
		conditions = append(conditions, sq.GtOrEq{"modified": ts})
	case m.Has(modifierIndexAbove):
		index, _ := strconv.ParseInt(m.Get(modifierIndexAbove), 10, 64)
		conditions = append(conditions, sq.GtOrEq{"sortindex": index})
	case m.Has(modifierIndexBelow):
		index, _ := strconv.ParseInt(m.Get(modifierIndexBelow), 10, 64)
		conditions = append(conditions, sq.LtOrEq{"sortindex": index})
	}

	return conditions
}

// buildCollectionQuery assembles the SELECT serving collection reads.
// A full read fetches whole objects; otherwise only object ids.
func buildCollectionQuery(collectionID int64, m urlparser.Modifiers, full bool, ph sq.PlaceholderFormat) (string, []any, error) {
	columns := []string{"name"}
	if full {
		columns = []string{"name", "modified", "sortindex", "payload", "parentid", "predecessorid"}
	}

	builder := sq.Select(columns...).
		From("wbo").
		Where(sq.Eq{"collectionid": collectionID}).
		PlaceholderFormat(ph)

	for _, condition := range modifierConditions(m) {
		builder = builder.Where(condition)
	}

	switch m.Get(modifierSort) {
	case sortOldest:
		builder = builder.OrderBy("modified ASC")
	case sortNewest:
		builder = builder.OrderBy("modified DESC")
	case sortIndex:
		builder = builder.OrderBy("sortindex DESC")
	}

	if m.Has(modifierLimit) {
		if limit, ok := parseUint(m.Get(modifierLimit)); ok {
			builder = builder.Limit(limit)

			// OFFSET is only honored together with LIMIT
			if m.Has(modifierOffset) {
				if offset, ok := parseUint(m.Get(modifierOffset)); ok {
					builder = builder.Offset(offset)
				}
			}
		}
	}

	return builder.ToSql()
}

// buildDeleteCollectionQuery assembles the DELETE serving collection deletes.
// Selection modifiers apply; sorting and paging do not.
func buildDeleteCollectionQuery(collectionID int64, m urlparser.Modifiers, ph sq.PlaceholderFormat) (string, []any, error) {
	builder := sq.Delete("wbo").
		Where(sq.Eq{"collectionid": collectionID}).
		PlaceholderFormat(ph)

	for _, condition := range modifierConditions(m) {
		builder = builder.Where(condition)
	}

	return builder.ToSql()
}

// buildInsertWBO assembles the INSERT for a new object. Absent optional
// fields are stored as NULL; an absent payload as the empty string.
func buildInsertWBO(collectionID int64, modified float64, wbo models.WBO, ph sq.PlaceholderFormat) (string, []any, error) {
	payload := ""
	if wbo.Payload != nil {
		payload = *wbo.Payload
	}

	values := map[string]any{
		"collectionid": collectionID,
		"name":         wbo.ID,
		"modified":     utils.RoundTimestamp(modified),
		"payload":      payload,
	}
	if wbo.SortIndex != nil {
		values["sortindex"] = *wbo.SortIndex
	}
	if wbo.TTL != nil {
		values["ttl"] = *wbo.TTL
	}
	if wbo.ParentID != nil {
		values["parentid"] = *wbo.ParentID
	}
	if wbo.PredecessorID != nil {
		values["predecessorid"] = *wbo.PredecessorID
	}

	return sq.Insert("wbo").SetMap(values).PlaceholderFormat(ph).ToSql()
}

// buildUpdateWBO assembles the field-wise UPDATE for an existing object.
// Only fields present on wbo overwrite stored columns, plus the new
// modification time.
func buildUpdateWBO(collectionID int64, modified float64, wbo models.WBO, ph sq.PlaceholderFormat) (string, []any, error) {
	values := map[string]any{
		"modified": utils.RoundTimestamp(modified),
	}
	if wbo.Payload != nil {
		values["payload"] = *wbo.Payload
	}
	if wbo.SortIndex != nil {
		values["sortindex"] = *wbo.SortIndex
	}
	if wbo.TTL != nil {
		values["ttl"] = *wbo.TTL
	}
	if wbo.ParentID != nil {
		values["parentid"] = *wbo.ParentID
	}
	if wbo.PredecessorID != nil {
		values["predecessorid"] = *wbo.PredecessorID
	}

	return sq.Update("wbo").
		SetMap(values).
		Where(sq.Eq{"collectionid": collectionID, "name": wbo.ID}).
		PlaceholderFormat(ph).
		ToSql()
}
