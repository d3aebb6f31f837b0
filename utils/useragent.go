package utils

import "strings"

// ParseUserAgent derives coarse device, browser and OS labels from a
// User-Agent header. An empty header yields "Unknown" for all three.
func ParseUserAgent(ua string) (device, browser, os string) {
	if ua == "" {
		return "Unknown", "Unknown", "Unknown"
	}

	// iPad UAs also carry "Mobile", so Tablet is checked first.
	device = "Desktop"
	switch {
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		device = "Tablet"
	case strings.Contains(ua, "Mobile") || strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone"):
		device = "Mobile"
	}

	// Edge and Chrome both advertise Safari; Edge also advertises Chrome.
	browser = "Unknown"
	switch {
	case strings.Contains(ua, "Edg"):
		browser = "Edge"
	case strings.Contains(ua, "Chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "Firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "Safari"):
		browser = "Safari"
	}

	os = "Unknown"
	switch {
	case strings.Contains(ua, "Windows"):
		os = "Windows"
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") || strings.Contains(ua, "iOS"):
		os = "iOS"
	case strings.Contains(ua, "Mac"):
		os = "macOS"
	case strings.Contains(ua, "Android"):
		os = "Android"
	case strings.Contains(ua, "Linux"):
		os = "Linux"
	}
	return device, browser, os
}
