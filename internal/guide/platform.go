package guide

import "strings"

// Platform identifies the observability platform a guide targets.
type Platform string

// Platforms with dedicated prompt guidance.
const (
	PlatformDynatrace    Platform = "Dynatrace"
	PlatformGrafana      Platform = "Grafana"
	PlatformLogicMonitor Platform = "LogicMonitor"
	PlatformSplunk       Platform = "Splunk"
)

// KnownPlatforms lists the platforms with dedicated prompt guidance.
func KnownPlatforms() []Platform {
	return []Platform{PlatformDynatrace, PlatformGrafana, PlatformLogicMonitor, PlatformSplunk}
}

// ParsePlatform canonicalizes a platform name. Unrecognized names pass
// through unchanged so guides can target any platform.
func ParsePlatform(s string) Platform {
	trimmed := strings.TrimSpace(s)
	for _, p := range KnownPlatforms() {
		if strings.EqualFold(trimmed, string(p)) {
			return p
		}
	}
	return Platform(trimmed)
}

// Known reports whether the platform has dedicated prompt guidance.
func (p Platform) Known() bool {
	for _, k := range KnownPlatforms() {
		if p == k {
			return true
		}
	}
	return false
}

// guidance returns platform-specific prompt language. Unknown platforms
// get generic phrasing built around their name.
func (p Platform) guidance() string {
	switch p {
	case PlatformDynatrace:
		return "Use Dynatrace Service-Level Objectives functionality, DQL (Dynatrace Query Language) for SLI queries, and Dynatrace management zones and alerting profiles where relevant."
	case PlatformGrafana:
		return "Use Grafana SLO tooling, PromQL or LogQL recording rules for SLIs, and Grafana alerting with burn rate rules where relevant."
	case PlatformLogicMonitor:
		return "Use LogicMonitor Service Insight, datapoint-based SLI collection, and LogicMonitor alert thresholds and escalation chains where relevant."
	case PlatformSplunk:
		return "Use Splunk Observability Cloud SLO management, SPL or SignalFlow queries for SLIs, and Splunk detectors and alerting where relevant."
	default:
		return "Use the native SLO, query, and alerting capabilities of " + string(p) + " where relevant."
	}
}
