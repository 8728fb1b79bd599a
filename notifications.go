package norvik

import "github.com/norvikdb/norvik-go/internal/db"

// NotificationMinimumSeverity is the least severe notification level the
// server should still report.
type NotificationMinimumSeverity string

const (
	// NotificationsDefault leaves the choice to the server.
	NotificationsDefault NotificationMinimumSeverity = ""
	NotificationsAll     NotificationMinimumSeverity = "ALL"
	NotificationsInfo    NotificationMinimumSeverity = "INFORMATION"
	NotificationsWarning NotificationMinimumSeverity = "WARNING"
	// NotificationsDisabled turns notification analysis off entirely.
	NotificationsDisabled NotificationMinimumSeverity = "OFF"
)

// NotificationCategory groups notifications by their subject.
type NotificationCategory string

const (
	CategoryHint         NotificationCategory = "HINT"
	CategoryUnrecognized NotificationCategory = "UNRECOGNIZED"
	CategoryUnsupported  NotificationCategory = "UNSUPPORTED"
	CategoryPerformance  NotificationCategory = "PERFORMANCE"
	CategoryDeprecation  NotificationCategory = "DEPRECATION"
	CategoryGeneric      NotificationCategory = "GENERIC"
	CategorySecurity     NotificationCategory = "SECURITY"
)

// NotificationFilter narrows which notifications the server produces for the
// queries of a session. Skipped categories also skip the corresponding
// server-side analysis, which can speed up query execution.
type NotificationFilter struct {
	MinimumSeverity    NotificationMinimumSeverity `yaml:"minimum_severity"`
	DisabledCategories []NotificationCategory      `yaml:"disabled_categories"`
}

func (f NotificationFilter) toInternal() db.NotificationFilter {
	categories := make([]string, 0, len(f.DisabledCategories))
	for _, c := range f.DisabledCategories {
		categories = append(categories, string(c))
	}
	return db.NotificationFilter{
		MinSeverity:        string(f.MinimumSeverity),
		DisabledCategories: categories,
	}
}
