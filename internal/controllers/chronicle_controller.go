package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/almanac"
	"chronicle/internal/models"
	"chronicle/internal/providers"
	"chronicle/internal/services"
	"chronicle/internal/store"
)

type ChronicleController struct {
	logger  providers.Logger
	view    services.ViewServiceInterface
	cache   providers.CacheProviderInterface
	archive *store.ImageArchive
	clock   providers.Clock
}

func NewChronicleController(
	logger providers.Logger,
	view services.ViewServiceInterface,
	cache providers.CacheProviderInterface,
	archive *store.ImageArchive,
	clock providers.Clock,
) *ChronicleController {
	return &ChronicleController{
		logger:  logger,
		view:    view,
		cache:   cache,
		archive: archive,
		clock:   clock,
	}
}

func (cc *ChronicleController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := cc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeJSON(w http.ResponseWriter, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Today serves the daily view snapshot. An idle machine starts its load
// cycle in the background; clients poll until SUCCESS or ERROR.
func (cc *ChronicleController) Today(w http.ResponseWriter, r *http.Request) {
	if cc.view.State() == models.StateIdle {
		go cc.view.Load(context.Background())
	}
	writeJSON(w, cc.view.Snapshot())
}

// Retry re-enters the load cycle. It is only meaningful from the error
// state; anything else conflicts.
func (cc *ChronicleController) Retry(w http.ResponseWriter, r *http.Request) {
	if cc.view.State() != models.StateError {
		http.Error(w, "Conflict", http.StatusConflict)
		return
	}
	go cc.view.Retry(context.Background())
	w.WriteHeader(http.StatusAccepted)
}

// Select switches the highlighted event of a successful view.
func (cc *ChronicleController) Select(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("i"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := cc.view.Select(r.Context(), index); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, cc.view.Snapshot())
}

// Calendar serves the Monday-start month grid. year/month default to
// the current month; month is 1-based in the API.
func (cc *ChronicleController) Calendar(w http.ResponseWriter, r *http.Request) {
	now := cc.clock.Now()
	year := now.Year()
	month := int(now.Month())

	var err error
	if q := r.URL.Query().Get("year"); q != "" {
		if year, err = strconv.Atoi(q); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}
	if q := r.URL.Query().Get("month"); q != "" {
		if month, err = strconv.Atoi(q); err != nil || month < 1 || month > 12 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	key := "grid:" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
	cc.serveFromCacheOrCompute(w, key, func() (any, error) {
		return almanac.CalendarGrid(year, month-1), nil
	})
}

type almanacResponse struct {
	Date      almanac.DateParts `json:"date"`
	SolarTerm almanac.SolarTerm `json:"solarTerm"`
}

// Almanac serves date parts, lunar names, and the active solar term for
// the given date (default today).
func (cc *ChronicleController) Almanac(w http.ResponseWriter, r *http.Request) {
	t := cc.clock.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, t.Location())
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		t = parsed
	}

	key := "almanac:" + t.Format("2006-01-02")
	cc.serveFromCacheOrCompute(w, key, func() (any, error) {
		return almanacResponse{
			Date:      almanac.Parts(t),
			SolarTerm: almanac.SolarTermFor(t),
		}, nil
	})
}

type archiveResponse struct {
	Days []string `json:"days"`
}

// Archive lists the day keys with archived illustrations, newest first.
func (cc *ChronicleController) Archive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, archiveResponse{Days: cc.archive.Days()})
}
