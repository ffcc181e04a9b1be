// Package navigation builds the console sidebar for a signed-in user.
package navigation

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/permission"
)

type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Menu struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Items []Item `json:"items"`
}

// entry is visible when the session holds any of anyOf. adminOnly entries
// need a full-capability account.
type entry struct {
	Item
	anyOf     []permission.Capability
	adminOnly bool
}

type section struct {
	key, label, icon string
	entries          []entry
}

var sidebar = []section{
	{"hr", "Human Resources", "fas fa-users", []entry{
		{Item: Item{"People", "/people"}, anyOf: []permission.Capability{permission.HRPeople}},
		{Item: Item{"Vacation | Shifts", "/vacation-shifts"}, anyOf: []permission.Capability{permission.HRVacationShifts}},
		{Item: Item{"Dashboard", "/dashboard"}, anyOf: []permission.Capability{permission.HRPeople}},
	}},
	{"finance", "Finance", "fas fa-dollar-sign", []entry{
		{Item: Item{"Finance", "/finance"}, anyOf: []permission.Capability{permission.Finance}},
	}},
	{"training", "Training", "fas fa-graduation-cap", []entry{
		{Item: Item{"AI | FAQ", "/training/ai-faq"}, anyOf: []permission.Capability{
			permission.TrainingOnEquity, permission.TrainingExnie, permission.TrainingB2Hive, permission.TrainingFundsCap,
		}},
		{Item: Item{"Technical Video", "/training/video"}, anyOf: []permission.Capability{permission.TrainingVideo}},
		{Item: Item{"Procedures Video", "/training/procedures"}, anyOf: []permission.Capability{permission.TrainingOnboarding}},
	}},
	{"apps", "Apps", "fas fa-mobile-alt", []entry{
		{Item: Item{"OnEquity", "/apps/onequity"}, anyOf: []permission.Capability{
			permission.AppOnAI, permission.AppOnIC, permission.AppOnTermination, permission.AppOnCC,
			permission.AppOnTemplates, permission.AppOnHTML, permission.AppOnTP, permission.AppOnLP,
		}},
		{Item: Item{"Exnie", "/apps/exnie"}, anyOf: []permission.Capability{
			permission.AppExOM, permission.AppExTA, permission.AppExTemplates, permission.AppHTML,
		}},
	}},
	{"admin", "Admin", "fas fa-cog", []entry{
		{Item: Item{"Config", "/admin/config"}, adminOnly: true},
		{Item: Item{"Permissions", "/admin/permissions"}, adminOnly: true},
		{Item: Item{"Activity Logs", "/admin/logs"}, adminOnly: true},
	}},
}

func (e entry) visible(s *internal.Session) bool {
	if s == nil {
		return false
	}
	if e.adminOnly {
		return s.Admin
	}
	for _, c := range e.anyOf {
		if s.Can(string(c)) {
			return true
		}
	}
	return false
}

// Build returns the menus the session may open. Menus left without items are dropped.
func Build(s *internal.Session) []Menu {
	out := []Menu{}
	for _, sec := range sidebar {
		var items []Item
		for _, e := range sec.entries {
			if e.visible(s) {
				items = append(items, e.Item)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, Menu{Key: sec.key, Label: sec.label, Icon: sec.icon, Items: items})
	}
	return out
}
