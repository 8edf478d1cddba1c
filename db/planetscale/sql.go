package planetscale

import (
	"database/sql"
	"encoding/json"

	appDb "github.com/billix/billix-be/db"
	"github.com/google/uuid"
)

func newId() string {
	return uuid.NewString()
}

func forUpdate(query string) string {
	return query + " FOR UPDATE"
}

func marshalStringList(vals []string) (string, error) {
	if vals == nil {
		vals = []string{}
	}
	raw, err := json.Marshal(vals)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalStringList(raw string) ([]string, error) {
	vals := []string{}
	if raw == "" {
		return vals, nil
	}
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		return nil, err
	}
	return vals, nil
}

// requireRowsAffected converts a no-op conditional update into appDb.ErrStaleState
func requireRowsAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appDb.ErrStaleState
	}
	return nil
}

func toInterfaces[T any](vals []T) []interface{} {
	output := make([]interface{}, len(vals))
	for i, val := range vals {
		output[i] = val
	}
	return output
}
