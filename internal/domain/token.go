package domain

// Trend - направление последнего изменения курса
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendOf возвращает тренд по знаку изменения
func TrendOf(delta float64) Trend {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	}
	return TrendStable
}

// Token - добываемый токен (каталог + живое состояние)
type Token struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Symbol     string  `yaml:"symbol" json:"symbol"`
	BasePrice  float64 `yaml:"base_price" json:"base_price"`
	UnlockTier int     `yaml:"unlock_tier" json:"unlock_tier"`

	ProfitRate float64 `yaml:"-" json:"profit_rate"`
	Trend      Trend   `yaml:"-" json:"trend"`
	Value      float64 `yaml:"-" json:"value"`
	ValueLevel int     `yaml:"-" json:"value_level"`
	Unlocked   bool    `yaml:"-" json:"unlocked"`
}

// ValuePremium - надбавка к цене, купленная апгрейдами токена
func (t Token) ValuePremium() float64 {
	p := t.Value - t.BasePrice
	if p < 0 {
		return 0
	}
	return p
}

// Price - сколько кэша даёт один добытый токен.
// Рыночный profitRate плюс купленная надбавка value.
func (t Token) Price() float64 {
	return t.ProfitRate + t.ValuePremium()
}

// Fresh возвращает токен в начальном состоянии
func (t Token) Fresh() Token {
	t.ProfitRate = t.BasePrice
	t.Value = t.BasePrice
	t.ValueLevel = 0
	t.Trend = TrendStable
	t.Unlocked = t.UnlockTier == 0
	return t
}
