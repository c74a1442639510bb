package server

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

var windowPattern = regexp.MustCompile(`^weeks:(-?\d+)$`)

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name, entity string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid " + entity + " id")
	}
	return id, nil
}

// queryWeeks reads ?weeks=N. Non-integers are rejected; values below 1 are
// left for the window resolver to clamp.
func queryWeeks(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("weeks")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("weeks must be an integer")
	}
	return n, nil
}

// queryWindow reads ?window=weeks:N. Like queryWeeks, out-of-range N is
// clamped by the window resolver.
func queryWindow(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("window")
	if v == "" {
		return def, nil
	}
	m := windowPattern.FindStringSubmatch(v)
	if m == nil {
		return 0, badRequest("window must look like weeks:N")
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, badRequest("window must look like weeks:N")
	}
	return n, nil
}

// queryPositiveInt reads an optional positive integer; zero means absent.
func queryPositiveInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, badRequest("Invalid " + key)
	}
	return n, nil
}

// queryDate reads an optional YYYY-MM-DD or RFC 3339 parameter as a UTC time.
func queryDate(r *http.Request, key string) (time.Time, bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, badRequest("Invalid " + key + " date")
	}
	return t.UTC(), true, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
