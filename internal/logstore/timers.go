package logstore

import "time"

type purgeTicker interface {
	C() <-chan time.Time
	Stop()
}

type tickerFactory func(d time.Duration) purgeTicker

type stdTicker struct {
	t *time.Ticker
}

func (t *stdTicker) C() <-chan time.Time { return t.t.C }
func (t *stdTicker) Stop()               { t.t.Stop() }

func defaultTickerFactory(d time.Duration) purgeTicker {
	return &stdTicker{t: time.NewTicker(d)}
}
