// Package registry holds the fixed catalog of valid course codes and the
// category names derived from their three-letter prefixes. It is built once
// at startup and injected read-only into the catalog and ingestion paths.
package registry

import (
	"sort"
	"strings"
)

// Registry validates course codes and resolves category names.
type Registry struct {
	codes      map[string]struct{}
	categories map[string]string
	sorted     []string
}

// New builds a registry from a course code list and a prefix -> display name
// table. Codes are stored uppercase; lookups are case-insensitive.
func New(codes []string, categories map[string]string) *Registry {
	r := &Registry{
		codes:      make(map[string]struct{}, len(codes)),
		categories: make(map[string]string, len(categories)),
	}
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, dup := r.codes[code]; dup {
			continue
		}
		r.codes[code] = struct{}{}
		r.sorted = append(r.sorted, code)
	}
	sort.Strings(r.sorted)
	for prefix, name := range categories {
		prefix = strings.ToUpper(strings.TrimSpace(prefix))
		name = strings.TrimSpace(name)
		if prefix == "" || name == "" {
			continue
		}
		r.categories[prefix] = name
	}
	return r
}

// Default returns the registry for the fixed VU course catalog.
func Default() *Registry {
	return New(defaultCourseCodes, defaultCategories)
}

// Contains reports whether the code is in the catalog, ignoring case.
func (r *Registry) Contains(code string) bool {
	_, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// CategoryFor derives the category of a course code: its first three
// characters, uppercased. Codes shorter than three characters map to the
// whole code uppercased.
func CategoryFor(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 3 {
		return code[:3]
	}
	return code
}

// CategoryName returns the display name for a category prefix, or the
// prefix itself when no name is registered.
func (r *Registry) CategoryName(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if name, ok := r.categories[prefix]; ok {
		return name
	}
	return prefix
}

// CourseCodes returns all codes in sorted order.
func (r *Registry) CourseCodes() []string {
	out := make([]string, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// CategoryStat summarizes one category for the categories endpoint.
type CategoryStat struct {
	Name        string   `json:"name"`
	CourseCount int      `json:"courseCount"`
	Courses     []string `json:"courses"`
}

// Categories groups the course codes by registered category prefix.
func (r *Registry) Categories() map[string]CategoryStat {
	out := make(map[string]CategoryStat, len(r.categories))
	for prefix, name := range r.categories {
		var courses []string
		for _, code := range r.sorted {
			if strings.HasPrefix(code, prefix) {
				courses = append(courses, code)
			}
		}
		out[prefix] = CategoryStat{
			Name:        name,
			CourseCount: len(courses),
			Courses:     courses,
		}
	}
	return out
}

var defaultCategories = map[string]string{
	"CS":  "Computer Science",
	"MTH": "Mathematics",
	"PHY": "Physics",
	"BIO": "Biology",
	"CHE": "Chemistry",
	"ENG": "English",
	"ECO": "Economics",
	"MGT": "Management",
	"MKT": "Marketing",
	"FIN": "Finance",
	"ACC": "Accounting",
	"STA": "Statistics",
	"PSY": "Psychology",
	"SOC": "Sociology",
	"ISL": "Islamic Studies",
	"PAK": "Pakistan Studies",
	"EDU": "Education",
	"MCM": "Mass Communication",
}

var defaultCourseCodes = []string{
	"CS101", "CS201", "CS301", "CS302", "CS304", "CS401", "CS403", "CS408",
	"CS501", "CS502", "CS504", "CS506", "CS507", "CS508", "CS601", "CS602",
	"CS604", "CS605", "CS606", "CS607", "CS609", "CS610", "CS614", "CS615",
	"MTH101", "MTH202", "MTH301", "MTH401", "MTH501", "MTH601", "MTH603",
	"PHY101", "PHY301",
	"BIO101", "BIO201",
	"CHE101", "CHE201",
	"ENG101", "ENG201", "ENG301",
	"ECO401", "ECO402",
	"MGT101", "MGT201", "MGT211", "MGT301", "MGT401", "MGT411", "MGT501",
	"MGT502", "MGT503", "MGT601",
	"MKT501", "MKT610",
	"FIN611", "FIN621", "FIN622", "FIN623",
	"ACC311", "ACC501",
	"STA301", "STA630",
	"PSY101", "PSY401",
	"SOC101", "SOC401",
	"ISL201",
	"PAK301",
	"EDU101", "EDU301",
	"MCM301", "MCM401",
}
