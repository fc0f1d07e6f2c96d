package query

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode converts rows into values of T. Struct fields are matched by their
// `db` tag, falling back to a case-insensitive field name match. Scalar types
// are converted loosely, so a COUNT returned as a string still fills an int64.
func Decode[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		v, err := DecodeOne[T](r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeOne converts a single row.
func DecodeOne[T any](row Row) (T, error) {
	var v T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		Result:           &v,
	})
	if err != nil {
		return v, err
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return v, fmt.Errorf("failed to decode row: %w", err)
	}
	return v, nil
}
