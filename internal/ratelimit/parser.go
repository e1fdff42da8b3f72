// Package ratelimit detects language-model rate limits and computes when to retry.
package ratelimit

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// BufferSeconds is added to every reset time to avoid retrying too early.
	BufferSeconds = 5

	// BarePatternMaxContentSize limits bare-phrase matching to short output so a
	// model answer that merely mentions rate limits is not mistaken for one.
	BarePatternMaxContentSize = 500
)

// RateLimitInfo describes a detected rate limit.
type RateLimitInfo struct {
	Detected   bool
	Parseable  bool
	ResetEpoch int64
	ResetHuman string
}

var (
	// "resets 6pm (UTC)", "reset 6:30pm (America/Sao_Paulo)", "resets 18:00 (UTC)"
	resetPattern = regexp.MustCompile(`(?i)resets?\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*\(([^)]+)\)`)

	barePattern = regexp.MustCompile(`(?i)you'?ve hit your limit|rate limit(?:ed| exceeded)|too many requests|overloaded`)
)

// Detect inspects CLI or API output text. It returns nil when no rate limit is present.
func Detect(content string, now time.Time) *RateLimitInfo {
	if m := resetPattern.FindStringSubmatch(content); m != nil {
		reset, err := resetAfter(now, m[1], m[2], m[3], strings.TrimSpace(m[4]))
		if err != nil {
			return &RateLimitInfo{Detected: true}
		}
		return infoAt(reset)
	}
	if len(content) <= BarePatternMaxContentSize && barePattern.MatchString(content) {
		return &RateLimitInfo{Detected: true}
	}
	return nil
}

// FromRetryAfter interprets an HTTP Retry-After header given as delta-seconds
// or an HTTP date. An empty or malformed header yields an unparseable limit.
func FromRetryAfter(header string, now time.Time) *RateLimitInfo {
	header = strings.TrimSpace(header)
	if header == "" {
		return &RateLimitInfo{Detected: true}
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return infoAt(now.Add(time.Duration(secs) * time.Second))
	}
	if at, err := http.ParseTime(header); err == nil {
		return infoAt(at)
	}
	return &RateLimitInfo{Detected: true}
}

func infoAt(reset time.Time) *RateLimitInfo {
	reset = reset.Add(BufferSeconds * time.Second)
	return &RateLimitInfo{
		Detected:   true,
		Parseable:  true,
		ResetEpoch: reset.Unix(),
		ResetHuman: reset.Format("2006-01-02 15:04:05 MST"),
	}
}

// resetAfter returns the next occurrence of hour:minute in tz strictly after now.
func resetAfter(now time.Time, hourStr, minuteStr, meridiem, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid reset time %s:%s", hourStr, minuteStr)
	}

	local := now.In(loc)
	reset := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !reset.After(local) {
		reset = reset.Add(24 * time.Hour)
	}
	return reset, nil
}
