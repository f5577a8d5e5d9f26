package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Application is a named set of instances.
type Application struct {
	Name      string         `json:"name"`
	Instances []InstanceInfo `json:"instance"`
}

// Applications is a registry snapshot (full or delta).
type Applications struct {
	VersionDelta int64         `json:"versions__delta"`
	AppsHashCode string        `json:"apps__hashcode"`
	Applications []Application `json:"application"`
}

// Instance looks up one instance by application name and id.
func (a Applications) Instance(appName, id string) (InstanceInfo, bool) {
	appName = NormalizeAppName(appName)
	for _, app := range a.Applications {
		if app.Name != appName {
			continue
		}
		for _, inst := range app.Instances {
			if inst.InstanceID == id {
				return inst, true
			}
		}
	}
	return InstanceInfo{}, false
}

// Size returns the total number of instances.
func (a Applications) Size() int {
	n := 0
	for _, app := range a.Applications {
		n += len(app.Instances)
	}
	return n
}

// Sort orders applications by name and instances by id so snapshots are deterministic.
func (a *Applications) Sort() {
	sort.Slice(a.Applications, func(i, j int) bool {
		return a.Applications[i].Name < a.Applications[j].Name
	})
	for _, app := range a.Applications {
		sort.Slice(app.Instances, func(i, j int) bool {
			return app.Instances[i].InstanceID < app.Instances[j].InstanceID
		})
	}
}

// ReconcileHashCode builds the status digest clients compare after applying a delta,
// e.g. "DOWN_1_UP_3_".
func ReconcileHashCode(apps []Application) string {
	counts := make(map[InstanceStatus]int)
	for _, app := range apps {
		for _, inst := range app.Instances {
			counts[inst.Status]++
		}
	}
	statuses := make([]string, 0, len(counts))
	for st := range counts {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)

	var b strings.Builder
	for _, st := range statuses {
		b.WriteString(st)
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(counts[InstanceStatus(st)]))
		b.WriteByte('_')
	}
	return b.String()
}
