package interactions

import "strings"

// CustomIDSeparator joins the action and owner segments of a component
// custom_id.
const CustomIDSeparator = ";"

// CustomID builds a component custom_id that embeds the only user allowed
// to act on the component: "<action>;<ownerUserID>".
func CustomID(action, ownerUserID string) string {
	return action + CustomIDSeparator + ownerUserID
}

// CustomIDAction returns the action segment of a custom_id.
func CustomIDAction(customID string) string {
	action, _, _ := strings.Cut(customID, CustomIDSeparator)
	return action
}

// CustomIDOwner extracts the embedded owner user ID from a custom_id.
// A custom_id without a separator (or with an empty owner segment) carries
// no restriction and returns ok=false.
func CustomIDOwner(customID string) (string, bool) {
	_, rest, found := strings.Cut(customID, CustomIDSeparator)
	if !found {
		return "", false
	}

	owner := rest
	if idx := strings.Index(rest, CustomIDSeparator); idx >= 0 {
		owner = rest[:idx]
	}
	if owner == "" {
		return "", false
	}

	return owner, true
}
