package utils

import (
	"fmt"
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"deviceType"` // mobile, tablet, desktop, bot
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"isBot"`
}

var tabletIndicators = []string{"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 9", "nexus 10", "xoom", "sm-t"}

// ParseUserAgent extracts device information for admin session records
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	info := DeviceInfo{
		IsBot:   parser.Bot(),
		OS:      osName(parser),
		Browser: "Unknown",
	}
	if name, _ := parser.Browser(); name != "" {
		info.Browser = name
	}

	switch {
	case info.IsBot:
		info.DeviceType = "bot"
	case parser.Mobile() && isTablet(userAgent):
		info.DeviceType = "tablet"
	case parser.Mobile():
		info.DeviceType = "mobile"
	default:
		info.DeviceType = "desktop"
	}
	return info
}

// Describe renders the device as shown in session listings,
// e.g. "Firefox on Linux x86_64 (desktop)"
func (d DeviceInfo) Describe() string {
	return fmt.Sprintf("%s on %s (%s)", d.Browser, d.OS, d.DeviceType)
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, indicator := range tabletIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func osName(parser *ua.UserAgent) string {
	info := parser.OSInfo()
	if info.Name == "" {
		return "Unknown"
	}
	if info.Version != "" {
		return info.Name + " " + info.Version
	}
	return info.Name
}
