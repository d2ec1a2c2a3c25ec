package pkgrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// ErrInvalidParam is returned when a numeric path or query parameter does not parse.
var ErrInvalidParam = errors.New("invalid parameter")

// GetParam reads a path parameter from the request context (as stored by httprouter).
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

// ParamInt64 reads a path parameter as a base-10 int64.
func ParamInt64(ctx context.Context, key string) (int64, error) {
	v, err := strconv.ParseInt(GetParam(ctx, key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidParam, key)
	}
	return v, nil
}

// QueryInt reads a positive integer query value. A missing value yields def,
// and values above upper are clamped to it when upper > 0.
func QueryInt(r *http.Request, key string, def, upper int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidParam, key)
	}
	if upper > 0 && v > upper {
		v = upper
	}
	return v, nil
}
