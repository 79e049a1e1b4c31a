package http

import (
	"net/http"
	"strconv"

	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

// ExtractLimitOffset reads the limit and offset query parameters, clamped to
// the configured pagination bounds.
func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit, err := queryInt(query.Get("limit"), "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(query.Get("offset"), "offset")
	if err != nil {
		return 0, 0, err
	}

	return config.NormalizePaginationLimit(int(limit)), config.NormalizeOffset(offset), nil
}

func queryInt(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}

// ExtractDateRange reads the check_in and check_out query parameters.
// Both are required.
func ExtractDateRange(r *http.Request) (model.DateRange, error) {
	query := r.URL.Query()
	checkIn, checkOut := query.Get("check_in"), query.Get("check_out")
	if checkIn == "" || checkOut == "" {
		return model.DateRange{}, apperrors.InvalidInput("check_in and check_out parameters are required")
	}

	start, err := model.ParseDate(checkIn)
	if err != nil {
		return model.DateRange{}, apperrors.InvalidInput("invalid check_in parameter: " + err.Error())
	}
	end, err := model.ParseDate(checkOut)
	if err != nil {
		return model.DateRange{}, apperrors.InvalidInput("invalid check_out parameter: " + err.Error())
	}

	return model.NewDateRange(start, end), nil
}
