package services

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/almanac"
	"chronicle/internal/daycache"
	"chronicle/internal/gemini"
	"chronicle/internal/models"
	"chronicle/internal/providers"
	"chronicle/internal/store"
	"chronicle/internal/structures"
)

const (
	eventsCacheKey    = "events"
	solarTermImageKey = "image:solarterm"

	illustrationPreamble = "Generate a high quality, ultra-minimalist, clean line-art illustration. " +
		"White background. Style: Apple Design, elegant, architectural lines. " +
		"Vertical Portrait layout. Centered composition suitable for cropping. Subject: "
)

// eventsSchema constrains the structured text response to an array of
// event objects matching models.HistoryEvent.
const eventsSchema = `{
  "type": "ARRAY",
  "items": {
    "type": "OBJECT",
    "properties": {
      "year": {"type": "STRING"},
      "month": {"type": "STRING"},
      "day": {"type": "STRING"},
      "title": {"type": "STRING"},
      "description": {"type": "STRING"},
      "category": {"type": "STRING"},
      "keywords": {"type": "ARRAY", "items": {"type": "STRING"}},
      "visualPrompt": {"type": "STRING"},
      "themeColor": {"type": "STRING"},
      "secondaryColor": {"type": "STRING"}
    },
    "required": ["year", "month", "day", "title", "description", "category", "keywords", "visualPrompt", "themeColor", "secondaryColor"]
  }
}`

type ChronicleServiceInterface interface {
	LoadDaily(ctx context.Context, t time.Time) []models.HistoryEvent
	Illustration(ctx context.Context, subject, cacheKey string) (string, bool)
	SolarTermIllustration(ctx context.Context, term almanac.SolarTerm) (string, bool)
	EventImageKey(ev models.HistoryEvent) string
	EventPrompt(ev models.HistoryEvent) string
}

// ChronicleService orchestrates the day's content: text generation with
// day-scoped memoization and fallback, and the two illustration paths.
// None of its methods return errors; remote failures degrade to fallback
// content or absent images per the error taxonomy.
type ChronicleService struct {
	conf      *structures.Config
	logger    providers.Logger
	cache     *daycache.Cache
	generator gemini.GeneratorInterface
	archive   *store.ImageArchive
	metrics   providers.MetricsProviderInterface
	clock     providers.Clock
}

func NewChronicleService(
	conf *structures.Config,
	logger providers.Logger,
	cache *daycache.Cache,
	generator gemini.GeneratorInterface,
	archive *store.ImageArchive,
	metrics providers.MetricsProviderInterface,
	clock providers.Clock,
) ChronicleServiceInterface {
	return &ChronicleService{
		conf:      conf,
		logger:    logger,
		cache:     cache,
		generator: generator,
		archive:   archive,
		metrics:   metrics,
		clock:     clock,
	}
}

// LoadDaily returns the day's event list: cached result if present,
// otherwise one remote text generation, otherwise the fallback list.
func (cs *ChronicleService) LoadDaily(ctx context.Context, t time.Time) []models.HistoryEvent {
	if events, ok := daycache.Get[[]models.HistoryEvent](cs.cache, eventsCacheKey); ok && len(events) > 0 {
		return events
	}

	if !cs.generator.Configured() {
		cs.logger.Warnf(providers.TypeFetch, "No API key configured, serving fallback event")
		return []models.HistoryEvent{models.FallbackEvent(t)}
	}

	events, err := cs.fetchEvents(ctx, t)
	if err != nil {
		cs.logger.Errorf(providers.TypeFetch, "Failed to fetch history events: %s", err)
		return []models.HistoryEvent{models.FallbackEvent(t)}
	}

	daycache.Set(cs.cache, eventsCacheKey, events)
	return events
}

func (cs *ChronicleService) fetchEvents(ctx context.Context, t time.Time) ([]models.HistoryEvent, error) {
	month := int(t.Month())
	day := t.Day()

	prompt := fmt.Sprintf(`Find between %d and %d historically significant events that happened on %d月%d日 (Month: %d, Day: %d) in history.
STRICT REQUIREMENT: every event MUST be related to **Computer Science, Programming, Software Engineering, Artificial Intelligence, or Internet History**.

Return a JSON array of event objects with the following fields:
- year: The year of the event (string)
- month: The month of the event (string, number)
- day: The day of the event (string, number)
- title: A concise title of the event in Chinese (max 20 chars)
- description: A sophisticated, elegant description of the event in Chinese (approx 80-100 words), story-telling style.
- category: The category (e.g., 编程语言, 操作系统, 互联网, 人工智能)
- keywords: An array of 3-4 keywords in Chinese.
- visualPrompt: An English prompt to generate a minimalist line-art illustration representing this event (e.g. code snippets, abstract networks, vintage computers).
- themeColor: A hex color code matching the tech mood (e.g., #00FF41, #333333, #007AFF).
- secondaryColor: A complementary hex color code.`,
		cs.conf.Chronicle.MinEvents, cs.conf.Chronicle.MaxEvents, month, day, month, day)

	start := time.Now()
	raw, err := cs.generator.GenerateJSON(ctx, prompt, json.RawMessage(eventsSchema))
	cs.metrics.ObserveGenerationDuration("text", time.Since(start))
	if err != nil {
		cs.metrics.IncGenerationCalls("text", "error")
		return nil, err
	}

	var parsed []models.HistoryEvent
	if err := json.Unmarshal(raw, &parsed); err != nil {
		cs.metrics.IncGenerationCalls("text", "error")
		return nil, fmt.Errorf("parse events payload: %w", err)
	}

	events := make([]models.HistoryEvent, 0, len(parsed))
	for _, ev := range parsed {
		if err := ev.Validate(); err != nil {
			cs.logger.Warnf(providers.TypeFetch, "Dropping malformed event: %s", err)
			continue
		}
		events = append(events, ev)
		if len(events) == cs.conf.Chronicle.MaxEvents {
			break
		}
	}
	if len(events) == 0 {
		cs.metrics.IncGenerationCalls("text", "empty")
		return nil, fmt.Errorf("no valid events in payload")
	}

	cs.metrics.IncGenerationCalls("text", "success")
	return events, nil
}

// Illustration generates a line-art image for the subject. With a
// non-empty cacheKey the result is memoized for the day and archived;
// with an empty key the caller owns caching. The bool is false when no
// image could be produced, which siblings must treat as independent.
func (cs *ChronicleService) Illustration(ctx context.Context, subject, cacheKey string) (string, bool) {
	if cacheKey != "" {
		if uri, ok := daycache.Get[string](cs.cache, cacheKey); ok && uri != "" {
			return uri, true
		}
	}

	if !cs.generator.Configured() {
		return "", false
	}

	start := time.Now()
	uri, err := cs.generator.GenerateImage(ctx, illustrationPreamble+subject)
	cs.metrics.ObserveGenerationDuration("image", time.Since(start))
	if err != nil {
		cs.metrics.IncGenerationCalls("image", "error")
		cs.logger.Errorf(providers.TypeFetch, "Failed to generate illustration: %s", err)
		return "", false
	}
	if uri == "" {
		cs.metrics.IncGenerationCalls("image", "empty")
		cs.logger.Warnf(providers.TypeFetch, "Illustration response carried no image part")
		return "", false
	}
	cs.metrics.IncGenerationCalls("image", "success")

	if cacheKey != "" {
		daycache.Set(cs.cache, cacheKey, uri)
		cs.archive.Save(daycache.DayKey(cs.clock.Now()), cacheKey, uri)
	}
	return uri, true
}

// SolarTermIllustration generates the stamp-style seasonal image. A
// single shared cache slot suffices: only one term is active per day.
func (cs *ChronicleService) SolarTermIllustration(ctx context.Context, term almanac.SolarTerm) (string, bool) {
	if uri, ok := daycache.Get[string](cs.cache, solarTermImageKey); ok && uri != "" {
		return uri, true
	}

	if !cs.generator.Configured() {
		return "", false
	}

	prompt := fmt.Sprintf(`Generate a high quality, minimalist, artistic stamp-style illustration for the Chinese Solar Term: "%s" (%s).
Style: Traditional Chinese ink painting meets modern Apple design line art.
Composition: Vertical Portrait layout, centered subject. Clean white background.
Subject: Nature elements representing the season (e.g. spring sprout, summer lotus, autumn leaf, winter plum).`,
		term.Name, term.EnName)

	start := time.Now()
	uri, err := cs.generator.GenerateImage(ctx, prompt)
	cs.metrics.ObserveGenerationDuration("image", time.Since(start))
	if err != nil {
		cs.metrics.IncGenerationCalls("image", "error")
		cs.logger.Errorf(providers.TypeFetch, "Failed to generate solar term illustration: %s", err)
		return "", false
	}
	if uri == "" {
		cs.metrics.IncGenerationCalls("image", "empty")
		return "", false
	}
	cs.metrics.IncGenerationCalls("image", "success")

	daycache.Set(cs.cache, solarTermImageKey, uri)
	cs.archive.Save(daycache.DayKey(cs.clock.Now()), "solarterm", uri)
	return uri, true
}

// EventImageKey derives the per-event cache key. The year_title
// composite is not guaranteed unique across same-day events that share
// a year and title; such duplicates would share one illustration.
func (cs *ChronicleService) EventImageKey(ev models.HistoryEvent) string {
	return fmt.Sprintf("image:event:%s_%s", ev.Year, ev.Title)
}

// EventPrompt refines the generator-supplied visual prompt with the
// event's palette.
func (cs *ChronicleService) EventPrompt(ev models.HistoryEvent) string {
	return fmt.Sprintf("%s. Use a limited color palette matching %s. Ultra-clean, negative space, vector art style.", ev.VisualPrompt, ev.ThemeColor)
}
