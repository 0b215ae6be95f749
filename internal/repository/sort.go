package repository

// orderClauses maps the listing sort keys to ORDER BY clauses. The set is
// fixed: six fields times two directions, nothing else.
var orderClauses = map[string]string{
	"number_asc":           "number ASC",
	"number_desc":          "number DESC",
	"status_asc":           "status ASC",
	"status_desc":          "status DESC",
	"type_asc":             "type ASC",
	"type_desc":            "type DESC",
	"created_at_asc":       "created_at ASC",
	"created_at_desc":      "created_at DESC",
	"last_updated_at_asc":  "last_updated_at ASC",
	"last_updated_at_desc": "last_updated_at DESC",
	"assignee_asc":         "assignee_id ASC",
	"assignee_desc":        "assignee_id DESC",
}

// OrderClause resolves a sort key to its ORDER BY clause, failing with
// ErrBadSortKey for anything outside the enumeration.
func OrderClause(sortKey string) (string, error) {
	clause, ok := orderClauses[sortKey]
	if !ok {
		return "", ErrBadSortKey
	}
	return clause, nil
}
