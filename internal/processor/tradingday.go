package processor

import "time"

// 东八区，交易日判断与日期标签都按北京时间
var locEast8 *time.Location

func init() {
	locEast8, _ = time.LoadLocation("Asia/Shanghai")
	if locEast8 == nil {
		locEast8 = time.FixedZone("CST", 8*3600)
	}
}

// TradingCalendar 判断 A 股交易日：周末休市，外加配置的节假日。
// 节假日表不内置，法定假期每年变化，由配置传入
type TradingCalendar struct {
	holidays map[string]bool
}

func NewTradingCalendar(holidays []string) *TradingCalendar {
	m := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		m[d] = true
	}
	return &TradingCalendar{holidays: m}
}

// IsTradingDay 按北京时间判断是否交易日
func (c *TradingCalendar) IsTradingDay(t time.Time) bool {
	bt := t.In(locEast8)
	switch bt.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[bt.Format("2006-01-02")]
}

// PrevTradingDay 返回严格早于 t 的最近一个交易日：
// 周一与周末都会落到上一个周五（节假日顺延）
func (c *TradingCalendar) PrevTradingDay(t time.Time) time.Time {
	d := t.In(locEast8)
	for {
		d = d.AddDate(0, 0, -1)
		if c.IsTradingDay(d) {
			return d
		}
	}
}

// PrevTradingDayLabel 上一交易日的日期标签，用于日报标题
func (c *TradingCalendar) PrevTradingDayLabel(t time.Time) string {
	return c.PrevTradingDay(t).Format("2006-01-02")
}
