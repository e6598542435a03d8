package models

// FetchState is the process-wide UI state of the daily load cycle.
// Exactly one state is active at a time.
type FetchState int32

const (
	StateIdle FetchState = iota
	StateLoadingText
	StateLoadingImage
	StateSuccess
	StateError
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateLoadingText:
		return "LOADING_TEXT"
	case StateLoadingImage:
		return "LOADING_IMAGE"
	case StateSuccess:
		return "SUCCESS"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DailyView is the resolved state snapshot served to the presentation
// layer. Images are data URIs; an empty string means "no illustration".
type DailyView struct {
	State          string         `json:"state"`
	DateKey        string         `json:"dateKey"`
	Events         []HistoryEvent `json:"events,omitempty"`
	Selected       int            `json:"selected"`
	EventImage     string         `json:"eventImage,omitempty"`
	SolarTermImage string         `json:"solarTermImage,omitempty"`
	ErrorMessage   string         `json:"errorMessage,omitempty"`
}
