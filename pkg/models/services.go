package models

// Recognized service identifiers from the customer-support automation
// domain. Sources feed tickets or documents into a workflow; destinations
// receive notifications at the end of it.
const (
	ServiceHelpScout = "helpscout"
	ServiceNotion    = "notion"
	ServiceSlack     = "slack"
	ServiceEmail     = "email"
)

var sourceServiceLabels = map[string]string{
	ServiceHelpScout: "HelpScout Tickets",
	ServiceNotion:    "Notion Pages",
}

var destinationServiceLabels = map[string]string{
	ServiceSlack: "Slack Notification",
	ServiceEmail: "Email Notification",
}

// SourceServiceLabel returns the display label for a recognized source
// service.
func SourceServiceLabel(id string) (string, bool) {
	label, ok := sourceServiceLabels[id]

	return label, ok
}

// DestinationServiceLabel returns the display label for a recognized
// destination service.
func DestinationServiceLabel(id string) (string, bool) {
	label, ok := destinationServiceLabels[id]

	return label, ok
}
