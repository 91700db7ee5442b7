/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	TZ       string
	HTTPAddr string

	FrontendURL string

	JiraBaseURL  string
	JiraEmail    string
	JiraAPIToken string
	JiraPAT      string
	HTTPTimeout  time.Duration

	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string
	LLMTimeout  time.Duration
	CacheExpiry time.Duration

	// Prioritized candidate fields for story point values. Custom field
	// numbering is tenant-specific; first numeric > 0 wins.
	StoryPointFields []string
	JiraFieldsFile   string

	MaxResultsGeneral     int
	MaxResultsAggregation int

	CacheRefreshCron string
	UsageReportCron  string
}

// defaultStoryPointFields is the probe order validated against our tenant;
// override with STORY_POINT_FIELDS or JIRA_FIELDS_FILE.
var defaultStoryPointFields = []string{
	"customfield_10130",
	"customfield_10036",
	"customfield_10037",
	"Story Points",
	"customfield_10016",
	"customfield_10024",
	"customfield_10020",
	"storyPoints",
	"story_points",
	"points",
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" { return def }
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" { return def }
	i, err := strconv.Atoi(v)
	if err != nil { return def }
	return i
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" { return def }
	d, err := time.ParseDuration(v)
	if err != nil { return def }
	return d
}

func parseStrings(csv string) []string {
	if csv == "" { return nil }
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" { continue }
		out = append(out, p)
	}
	return out
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		TZ:       getenv("APP_TZ", "UTC"),
		HTTPAddr: getenv("HTTP_ADDR", ":3001"),

		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),

		JiraBaseURL:  getenv("JIRA_BASE_URL", ""),
		JiraEmail:    getenv("JIRA_EMAIL", ""),
		JiraAPIToken: getenv("JIRA_API_TOKEN", ""),
		JiraPAT:      getenv("JIRA_PAT", ""),
		HTTPTimeout:  dur("HTTP_TIMEOUT", 15*time.Second),

		LLMAPIKey:   getenv("LLM_API_KEY", getenv("GOOGLE_API_KEY", "")),
		LLMBaseURL:  getenv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		LLMModel:    getenv("LLM_MODEL", "gemini-2.5-flash"),
		LLMTimeout:  dur("LLM_TIMEOUT", 15*time.Second),
		CacheExpiry: dur("MODEL_CACHE_EXPIRY", time.Hour),

		JiraFieldsFile: getenv("JIRA_FIELDS_FILE", ""),

		MaxResultsGeneral:     atoi("MAX_RESULTS_GENERAL", 200),
		MaxResultsAggregation: atoi("MAX_RESULTS_AGGREGATION", 1000),

		CacheRefreshCron: getenv("CACHE_REFRESH_CRON", ""),
		UsageReportCron:  getenv("USAGE_REPORT_CRON", ""),
	}

	cfg.StoryPointFields = parseStrings(getenv("STORY_POINT_FIELDS", ""))
	if len(cfg.StoryPointFields) == 0 && cfg.JiraFieldsFile != "" {
		cfg.StoryPointFields = loadFieldCandidates(cfg.JiraFieldsFile)
	}
	if len(cfg.StoryPointFields) == 0 {
		cfg.StoryPointFields = defaultStoryPointFields
	}

	if loc, err := time.LoadLocation(cfg.TZ); err == nil {
		time.Local = loc
	}

	return cfg
}

// loadFieldCandidates reads a JSON array of {"id":..,"name":..} field defs and
// returns the ids in file order. Matches the export format of the Jira field
// admin screen.
func loadFieldCandidates(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil { return nil }
	type fieldDef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	var arr []fieldDef
	if err := json.Unmarshal(data, &arr); err != nil { return nil }
	out := make([]string, 0, len(arr))
	for _, f := range arr {
		if strings.TrimSpace(f.ID) != "" { out = append(out, f.ID) }
	}
	return out
}
