package curve_test

import (
	"testing"

	curve "github.com/okian/readyrank/internal/domain/curve"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDiminishingCurve(t *testing.T) {
	Convey("Given the diminishing-return curve", t, func() {
		Convey("When the count is zero or negative", func() {
			Convey("Then the score is zero", func() {
				So(curve.DiminishingCurve(0, 5, 100), ShouldEqual, 0)
				So(curve.DiminishingCurve(-3, 5, 100), ShouldEqual, 0)
			})
		})

		Convey("When the target or cap is non-positive", func() {
			Convey("Then the score is zero", func() {
				So(curve.DiminishingCurve(5, 0, 100), ShouldEqual, 0)
				So(curve.DiminishingCurve(5, 5, 0), ShouldEqual, 0)
			})
		})

		Convey("When the count reaches the target exactly", func() {
			Convey("Then the score is exactly the cap", func() {
				So(curve.DiminishingCurve(5, 5, 40), ShouldEqual, 40)
				So(curve.DiminishingCurve(4, 4, 100), ShouldEqual, 100)
				So(curve.DiminishingCurve(200, 200, 70), ShouldEqual, 70)
			})
		})

		Convey("When the count exceeds the target", func() {
			Convey("Then the score stays capped", func() {
				So(curve.DiminishingCurve(50, 5, 40), ShouldEqual, 40)
				So(curve.DiminishingCurve(1000, 4, 100), ShouldEqual, 100)
			})
		})

		Convey("When the count is half the target", func() {
			Convey("Then the score lands above the linear midpoint", func() {
				// ln(2)/ln(3) of the cap, the early steepness of the curve
				So(curve.DiminishingCurve(2, 4, 100), ShouldEqual, 63)
			})
		})

		Convey("When counts increase", func() {
			Convey("Then scores never decrease", func() {
				prev := 0
				for count := 1; count <= 20; count++ {
					score := curve.DiminishingCurve(count, 5, 40)
					So(score, ShouldBeGreaterThanOrEqualTo, prev)
					prev = score
				}
			})
		})
	})
}

func TestRecencyWeightedAverage(t *testing.T) {
	Convey("Given the recency-weighted average", t, func() {
		Convey("When the input is empty", func() {
			Convey("Then the average is zero", func() {
				So(curve.RecencyWeightedAverage(nil), ShouldEqual, 0)
				So(curve.RecencyWeightedAverage([]float64{}), ShouldEqual, 0)
			})
		})

		Convey("When there is a single value", func() {
			Convey("Then the average equals that value", func() {
				So(curve.RecencyWeightedAverage([]float64{85}), ShouldEqual, 85)
			})
		})

		Convey("When all values are equal", func() {
			Convey("Then the average equals the shared value", func() {
				So(curve.RecencyWeightedAverage([]float64{70, 70, 70, 70}), ShouldEqual, 70)
			})
		})

		Convey("When the newest value dominates", func() {
			Convey("Then the average tilts toward it", func() {
				// newest-first: 100 weighs 1.5, 0 weighs 1.4
				newestHigh := curve.RecencyWeightedAverage([]float64{100, 0})
				newestLow := curve.RecencyWeightedAverage([]float64{0, 100})
				So(newestHigh, ShouldBeGreaterThan, 50)
				So(newestLow, ShouldBeLessThan, 50)
				So(newestHigh, ShouldAlmostEqual, 100*1.5/2.9, 0.0001)
			})
		})

		Convey("When the series is long", func() {
			Convey("Then older weights floor at 1.0 instead of going negative", func() {
				values := make([]float64, 20)
				for i := range values {
					values[i] = 60
				}
				So(curve.RecencyWeightedAverage(values), ShouldAlmostEqual, 60, 0.0001)
			})
		})
	})
}

func TestLinearSlopeNormalized(t *testing.T) {
	Convey("Given the slope normalizer", t, func() {
		Convey("When the series has fewer than two points", func() {
			Convey("Then the score is the neutral 50", func() {
				So(curve.LinearSlopeNormalized(nil), ShouldEqual, 50)
				So(curve.LinearSlopeNormalized([]float64{42}), ShouldEqual, 50)
			})
		})

		Convey("When the series is flat", func() {
			Convey("Then the score is the neutral 50", func() {
				So(curve.LinearSlopeNormalized([]float64{5, 5, 5, 5}), ShouldEqual, 50)
			})
		})

		Convey("When the series rises one unit per step", func() {
			Convey("Then the score is 60", func() {
				So(curve.LinearSlopeNormalized([]float64{0, 1, 2, 3}), ShouldAlmostEqual, 60, 0.0001)
			})
		})

		Convey("When the series rises half a unit per step", func() {
			Convey("Then the score is 55", func() {
				So(curve.LinearSlopeNormalized([]float64{1, 1.5, 2}), ShouldAlmostEqual, 55, 0.0001)
			})
		})

		Convey("When the series rises steeply", func() {
			Convey("Then the score clamps at 100", func() {
				So(curve.LinearSlopeNormalized([]float64{0, 10}), ShouldEqual, 100)
			})
		})

		Convey("When the series falls steeply", func() {
			Convey("Then the score clamps at 0", func() {
				So(curve.LinearSlopeNormalized([]float64{100, 0}), ShouldEqual, 0)
			})
		})
	})
}
