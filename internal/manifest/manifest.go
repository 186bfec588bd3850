// Package manifest loads batch conversion manifests from JSON or CSV.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item describes one Jenkinsfile to convert and, optionally, where to push
// the result in Azure DevOps.
type Item struct {
	Jenkinsfile string `json:"jenkinsfile"`
	Out         string `json:"out,omitempty"`
	Org         string `json:"ado_org,omitempty"`
	Project     string `json:"ado_project,omitempty"`
	Repo        string `json:"ado_repo,omitempty"`
	Branch      string `json:"ado_branch,omitempty"`
	YAMLPath    string `json:"yaml_path,omitempty"`
}

// Load reads a manifest file. JSON manifests must be an array of items;
// CSV manifests need a header row whose column names match the JSON keys.
func Load(path string) ([]Item, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return loadJSON(path)
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("manifest %q must be .json or .csv", path)
	}
}

func loadJSON(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	return items, nil
}

func loadCSV(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	column := make(map[string]int, len(header))
	for i, name := range header {
		column[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := column[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]Item, 0, len(records)-1)
	for _, row := range records[1:] {
		items = append(items, Item{
			Jenkinsfile: field(row, "jenkinsfile"),
			Out:         field(row, "out"),
			Org:         field(row, "ado_org"),
			Project:     field(row, "ado_project"),
			Repo:        field(row, "ado_repo"),
			Branch:      field(row, "ado_branch"),
			YAMLPath:    field(row, "yaml_path"),
		})
	}
	return items, nil
}

// Validate reports which required fields an item is missing for pushing to
// Azure DevOps. Conversion-only items need just the jenkinsfile path.
func (it Item) Validate(requirePush bool) error {
	var missing []string
	if it.Jenkinsfile == "" {
		missing = append(missing, "jenkinsfile")
	}
	if requirePush {
		if it.Org == "" {
			missing = append(missing, "ado_org")
		}
		if it.Project == "" {
			missing = append(missing, "ado_project")
		}
		if it.Repo == "" {
			missing = append(missing, "ado_repo")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
