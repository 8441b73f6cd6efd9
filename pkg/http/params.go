package http

import (
	"net/http"
	"strconv"
	"time"

	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// ExtractInterval reads the required "startDateTime" and "endDateTime"
// RFC3339 query parameters. Interval ordering is validated by the service
// layer.
func ExtractInterval(r *http.Request) (model.Interval, error) {
	query := r.URL.Query()

	start, err := parseTimeParam(query.Get("startDateTime"), "startDateTime")
	if err != nil {
		return model.Interval{}, err
	}
	end, err := parseTimeParam(query.Get("endDateTime"), "endDateTime")
	if err != nil {
		return model.Interval{}, err
	}

	return model.Interval{Start: start, End: end}, nil
}

// ExtractOptionalInterval reads the window params when present; both absent
// yields ok=false, exactly one present is an error.
func ExtractOptionalInterval(r *http.Request) (model.Interval, bool, error) {
	query := r.URL.Query()
	startStr, endStr := query.Get("startDateTime"), query.Get("endDateTime")

	if startStr == "" && endStr == "" {
		return model.Interval{}, false, nil
	}
	if startStr == "" || endStr == "" {
		return model.Interval{}, false, apperrors.InvalidInput("startDateTime and endDateTime must be supplied together")
	}

	interval, err := ExtractInterval(r)
	if err != nil {
		return model.Interval{}, false, err
	}
	return interval, true, nil
}

func parseTimeParam(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.InvalidInput("missing required parameter: " + name)
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, must be RFC3339")
	}
	return parsed, nil
}
