package feeding

// RuleType define los tipos de regla de recurrencia soportados.
// @Enum daily, every_other_day, weekly, every_n_days, custom
type RuleType string

const (
	RuleDaily         RuleType = "daily"
	RuleEveryOtherDay RuleType = "every_other_day"
	RuleWeekly        RuleType = "weekly"
	RuleEveryNDays    RuleType = "every_n_days"

	// RuleCustom se comporta igual que weekly (mismo set de días);
	// la distinción es solo de etiqueta para la UI. Comportamiento
	// heredado a propósito, no inventar semántica nueva acá.
	RuleCustom RuleType = "custom"
)

// Response es el resultado de un intento de alimentación.
// @Enum struck_immediately, reluctant, assisted_feed, refused, regurgitated
type Response string

const (
	ResponseStruckImmediately Response = "struck_immediately"
	ResponseReluctant         Response = "reluctant"
	ResponseAssistedFeed      Response = "assisted_feed"
	ResponseRefused           Response = "refused"
	ResponseRegurgitated      Response = "regurgitated"
)

// Successful indica si la respuesta cuenta como comida efectiva.
func (r Response) Successful() bool {
	switch r {
	case ResponseStruckImmediately, ResponseReluctant, ResponseAssistedFeed:
		return true
	default:
		return false
	}
}

// HungerLevel clasifica el ayuno acumulado.
// @Enum normal, extended, concerning, critical, unknown
type HungerLevel string

const (
	HungerNormal     HungerLevel = "normal"
	HungerExtended   HungerLevel = "extended"
	HungerConcerning HungerLevel = "concerning"
	HungerCritical   HungerLevel = "critical"
	HungerUnknown    HungerLevel = "unknown"
)
