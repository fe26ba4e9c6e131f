package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sharetube/playback/internal/domain"
)

type envelope map[string]any

func (c controller) writeJSON(w http.ResponseWriter, status int, data envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Warn("failed to write json", "error", err)
	}
}

func (c controller) getBoolQueryParam(r *http.Request, key string) (bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}

	return b, nil
}

// getOptions reads player options from the query string of a connect request.
func (c controller) getOptions(r *http.Request) (domain.Options, error) {
	var (
		opts domain.Options
		err  error
	)

	if opts.Autoplay, err = c.getBoolQueryParam(r, "autoplay"); err != nil {
		return domain.Options{}, err
	}
	if opts.AutoAdvance, err = c.getBoolQueryParam(r, "auto-advance"); err != nil {
		return domain.Options{}, err
	}
	if opts.LockOrientation, err = c.getBoolQueryParam(r, "lock-orientation"); err != nil {
		return domain.Options{}, err
	}
	opts.Orientation = r.URL.Query().Get("orientation")

	if err := c.validate.Check(opts); err != nil {
		return domain.Options{}, err
	}

	return opts, nil
}
