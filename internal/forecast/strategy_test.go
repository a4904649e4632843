// internal/forecast/strategy_test.go
package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaiveMean(t *testing.T) {
	got := NaiveMean{}.Predict([]float64{2, 4, 6}, 3)
	assert.Equal(t, []float64{4.0, 4.0, 4.0}, got)
}

func TestNaiveMeanNotTruncated(t *testing.T) {
	got := NaiveMean{}.Predict([]float64{1, 2}, 2)
	assert.Equal(t, []float64{1.5, 1.5}, got)
}

func TestNaiveMeanEmptyHistory(t *testing.T) {
	got := NaiveMean{}.Predict(nil, 4)
	assert.Equal(t, []float64{0, 0, 0, 0}, got)
}

func TestNaiveMeanAllZeros(t *testing.T) {
	got := NaiveMean{}.Predict([]float64{0, 0, 0}, 2)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestLastValue(t *testing.T) {
	got := LastValue{}.Predict([]float64{2, 4, 6}, 2)
	assert.Equal(t, []float64{6.0, 6.0}, got)

	got = LastValue{}.Predict(nil, 2)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage{Window: 2}.Predict([]float64{10, 2, 4}, 3)
	assert.Equal(t, []float64{3.0, 3.0, 3.0}, got)
}

func TestMovingAverageWindowLargerThanHistory(t *testing.T) {
	got := MovingAverage{Window: 10}.Predict([]float64{2, 4}, 1)
	assert.Equal(t, []float64{3.0}, got)
}

func TestSeasonalNaive(t *testing.T) {
	history := []float64{9, 9, 1, 2, 3}
	got := SeasonalNaive{Period: 3}.Predict(history, 5)
	assert.Equal(t, []float64{1, 2, 3, 1, 2}, got)
}

func TestSeasonalNaiveShortHistoryFallsBackToMean(t *testing.T) {
	got := SeasonalNaive{Period: 7}.Predict([]float64{2, 4}, 2)
	assert.Equal(t, []float64{3.0, 3.0}, got)
}
