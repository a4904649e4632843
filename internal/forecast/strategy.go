// internal/forecast/strategy.go
package forecast

// Strategy produces horizon forecasted daily values from one SKU's past daily
// series (oldest first). Implementations must be deterministic and must not
// retain or mutate the history slice; the engine depends only on this
// contract, so strategies can be swapped without touching it.
type Strategy interface {
	Predict(history []float64, horizon int) []float64
}

// NaiveMean forecasts every future day as the arithmetic mean of the history.
// An empty history forecasts zero.
type NaiveMean struct{}

func (NaiveMean) Predict(history []float64, horizon int) []float64 {
	var mean float64
	if len(history) > 0 {
		var sum float64
		for _, v := range history {
			sum += v
		}
		mean = sum / float64(len(history))
	}

	out := make([]float64, horizon)
	for i := range out {
		out[i] = mean
	}
	return out
}

// LastValue forecasts every future day as the most recent historical value.
type LastValue struct{}

func (LastValue) Predict(history []float64, horizon int) []float64 {
	var last float64
	if len(history) > 0 {
		last = history[len(history)-1]
	}

	out := make([]float64, horizon)
	for i := range out {
		out[i] = last
	}
	return out
}

// MovingAverage forecasts every future day as the mean of the trailing Window
// historical values. A window larger than the history falls back to the full
// history; a non-positive window behaves like NaiveMean.
type MovingAverage struct {
	Window int
}

func (s MovingAverage) Predict(history []float64, horizon int) []float64 {
	window := s.Window
	if window <= 0 || window > len(history) {
		window = len(history)
	}

	var mean float64
	if window > 0 {
		var sum float64
		for _, v := range history[len(history)-window:] {
			sum += v
		}
		mean = sum / float64(window)
	}

	out := make([]float64, horizon)
	for i := range out {
		out[i] = mean
	}
	return out
}

// SeasonalNaive repeats the last full season of history across the horizon,
// so day i of the forecast equals the historical value one season earlier.
// Histories shorter than the period fall back to NaiveMean.
type SeasonalNaive struct {
	Period int
}

func (s SeasonalNaive) Predict(history []float64, horizon int) []float64 {
	if s.Period <= 0 || len(history) < s.Period {
		return NaiveMean{}.Predict(history, horizon)
	}

	season := history[len(history)-s.Period:]
	out := make([]float64, horizon)
	for i := range out {
		out[i] = season[i%s.Period]
	}
	return out
}
