package permission

import (
	"fmt"

	"github.com/frahmantamala/people-console/internal"
)

// Capability is the stable key of a console page a user may open.
type Capability string

const (
	HRPeople           Capability = "hr_people"
	HRVacationShifts   Capability = "hr_vacation_shifts"
	TrainingOnEquity   Capability = "training_onequity"
	TrainingExnie      Capability = "training_exnie"
	TrainingB2Hive     Capability = "training_b2hive"
	TrainingFundsCap   Capability = "training_fundscap"
	TrainingVideo      Capability = "training_video"
	TrainingOnboarding Capability = "training_onboarding"
	Finance            Capability = "finance"
	AppOnAI            Capability = "app_on_ai"
	AppOnIC            Capability = "app_on_ic"
	AppOnTermination   Capability = "app_on_termination"
	AppOnCC            Capability = "app_on_cc"
	AppOnTemplates     Capability = "app_on_templates"
	AppOnHTML          Capability = "app_on_html"
	AppOnTP            Capability = "app_on_tp"
	AppOnLP            Capability = "app_on_lp"
	AppExOM            Capability = "app_ex_om"
	AppExTA            Capability = "app_ex_ta"
	AppExTemplates     Capability = "app_ex_templates"
	AppHTML            Capability = "app_html"
)

type CapabilityInfo struct {
	Key   Capability `json:"key"`
	Label string     `json:"label"`
	Title string     `json:"title"`
}

// catalog is in column order.
var catalog = []CapabilityInfo{
	{HRPeople, "HR People", "Human Resources: People"},
	{HRVacationShifts, "HR Vacation Shifts", "Human Resources: Vacation Shifts"},
	{TrainingOnEquity, "Training OnEquity", "Training: OnEquity"},
	{TrainingExnie, "Training Exnie", "Training: Exnie"},
	{TrainingB2Hive, "Training B2Hive", "Training: B2Hive"},
	{TrainingFundsCap, "Training FundsCap", "Training: FundsCap"},
	{TrainingVideo, "Training Video", "Training: Video"},
	{TrainingOnboarding, "Training Onboarding", "Training: Onboarding"},
	{Finance, "Finance", "Finance"},
	{AppOnAI, "APP ON AI", "Apps OnEquity: A.I. Support"},
	{AppOnIC, "APP ON IC", "Apps OnEquity: Internal Control"},
	{AppOnTermination, "APP ON Termination", "Apps OnEquity: Termination"},
	{AppOnCC, "APP ON CC", "Apps OnEquity: Clients Complaints"},
	{AppOnTemplates, "APP ON Templates", "Apps OnEquity: Templates"},
	{AppOnHTML, "APP ON HTML", "Apps OnEquity: Templates HTML"},
	{AppOnTP, "APP ON TP", "Apps OnEquity: TrustPilot"},
	{AppOnLP, "APP ON LP", "Apps OnEquity: Lots and Profits"},
	{AppExOM, "APP EX OM", "Apps Exnie: Order Management"},
	{AppExTA, "APP EX TA", "Apps Exnie: Trading Analysis"},
	{AppExTemplates, "APP EX Templates", "Apps Exnie: Templates"},
	{AppHTML, "APP HTML", "Apps Exnie: Templates HTML"},
}

var byKey = func() map[Capability]CapabilityInfo {
	m := make(map[Capability]CapabilityInfo, len(catalog))
	for _, c := range catalog {
		m[c.Key] = c
	}
	return m
}()

var ErrUnknownCapability = internal.NewValidationError("unknown capability", internal.ErrCodeUnknownCapability)

func Catalog() []CapabilityInfo {
	out := make([]CapabilityInfo, len(catalog))
	copy(out, catalog)
	return out
}

func All() []Capability {
	out := make([]Capability, len(catalog))
	for i, c := range catalog {
		out[i] = c.Key
	}
	return out
}

func Parse(key string) (Capability, error) {
	c := Capability(key)
	if !c.Valid() {
		return "", ErrUnknownCapability.WithDetails(map[string]string{"capability": key})
	}
	return c, nil
}

func (c Capability) Valid() bool {
	_, ok := byKey[c]
	return ok
}

func (c Capability) Label() string {
	return byKey[c].Label
}

func (c Capability) Title() string {
	return byKey[c].Title
}

func (c Capability) String() string {
	return fmt.Sprintf("%s (%s)", string(c), c.Label())
}
